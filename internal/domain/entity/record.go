package entity

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"
)

// Record es un documento persistido de cualquiera de los cuatro recursos.
// ID lo asigna el almacén al insertar y no cambia después.
type Record struct {
	ID        string
	Values    map[string]string
	Qty       int64
	CreatedAt time.Time
	UpdatedAt time.Time

	order  []string
	qtyKey string
}

// Get devuelve el valor de un campo de texto.
func (r *Record) Get(key string) string {
	if r == nil || r.Values == nil {
		return ""
	}
	return r.Values[key]
}

// Clone copia el registro, incluido el orden de serialización.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Values = make(map[string]string, len(r.Values))
	for k, v := range r.Values {
		out.Values[k] = v
	}
	return &out
}

// MarshalJSON serializa el registro plano: _id, campos del esquema, qty y metadatos.
func (r *Record) MarshalJSON() ([]byte, error) {
	keys := r.order
	if keys == nil {
		keys = make([]string, 0, len(r.Values))
		for k := range r.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	qtyKey := r.qtyKey
	if qtyKey == "" {
		qtyKey = KeyQty
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeMember(&buf, "_id", r.ID, true); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := writeMember(&buf, k, r.Values[k], false); err != nil {
			return nil, err
		}
	}
	if err := writeMember(&buf, qtyKey, r.Qty, false); err != nil {
		return nil, err
	}
	if !r.CreatedAt.IsZero() {
		if err := writeMember(&buf, "created_at", r.CreatedAt, false); err != nil {
			return nil, err
		}
	}
	if !r.UpdatedAt.IsZero() {
		if err := writeMember(&buf, "updated_at", r.UpdatedAt, false); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value any, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
