package entity

// Field es un campo de texto obligatorio de un registro.
type Field struct {
	Key        string // nombre en JSON/BSON
	Label      string // etiqueta usada en los mensajes de validación
	Searchable bool   // participa en la búsqueda libre
}

// Schema describe uno de los recursos de movimiento de mercancía.
// Los cuatro recursos comparten el mismo contrato CRUD y solo difieren en sus campos.
type Schema struct {
	Name       string // "In", "Retur Gudang", ...
	ListName   string // usado en "<ListName> read successfully"
	Collection string
	Path       string
	Fields     []Field
	QtyKey     string
	QtyLabel   string
}

// FieldKeys devuelve las claves de texto en el orden del esquema.
func (s Schema) FieldKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// SearchableKeys devuelve las claves que participan en la búsqueda libre.
func (s Schema) SearchableKeys() []string {
	keys := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Searchable {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// NewRecord crea un registro vacío que serializa sus campos en el orden del esquema.
func (s Schema) NewRecord() *Record {
	return &Record{
		Values: make(map[string]string, len(s.Fields)),
		order:  s.FieldKeys(),
		qtyKey: s.QtyKey,
	}
}
