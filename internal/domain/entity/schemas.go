package entity

// Claves de los campos tal como existen en las colecciones desplegadas.
const (
	KeyShipmentNote = "no_surat_jalan"
	KeyDate         = "tanggal"
	KeyItemName     = "nama_barang"
	KeyQty          = "qty"
	KeySupplierName = "nama_supplier"
	KeyIssuerName   = "yang_mengeluarkan"
	KeyCarrierName  = "yang_membawa"
	KeyReceiverName = "yang_menerima"
)

var (
	shipmentNote = Field{Key: KeyShipmentNote, Label: "No Surat Jalan", Searchable: true}
	date         = Field{Key: KeyDate, Label: "Tanggal"}
	itemName     = Field{Key: KeyItemName, Label: "Nama Barang", Searchable: true}
	supplierName = Field{Key: KeySupplierName, Label: "Nama Supplier", Searchable: true}
	issuerName   = Field{Key: KeyIssuerName, Label: "Yang Mengeluarkan", Searchable: true}
	carrierName  = Field{Key: KeyCarrierName, Label: "Yang Membawa", Searchable: true}
	receiverName = Field{Key: KeyReceiverName, Label: "Yang Menerima", Searchable: true}
)

// Incoming: mercancía recibida de un proveedor.
var Incoming = Schema{
	Name:       "In",
	ListName:   "Ins",
	Collection: "ins",
	Path:       "/ins",
	Fields:     []Field{shipmentNote, date, supplierName, itemName},
	QtyKey:     KeyQty,
	QtyLabel:   "Qty",
}

// Outgoing: mercancía despachada desde la bodega.
var Outgoing = Schema{
	Name:       "Out",
	ListName:   "Outs",
	Collection: "outs",
	Path:       "/outs",
	Fields:     []Field{shipmentNote, date, issuerName, carrierName, itemName},
	QtyKey:     KeyQty,
	QtyLabel:   "Qty",
}

// WarehouseReturn: devoluciones que vuelven a la bodega.
var WarehouseReturn = Schema{
	Name:       "Retur Gudang",
	ListName:   "Retur Gudang",
	Collection: "retur_gudangs",
	Path:       "/retur-gudangs",
	Fields:     []Field{shipmentNote, date, receiverName, itemName, carrierName},
	QtyKey:     KeyQty,
	QtyLabel:   "Qty",
}

// FactoryReturn: devoluciones enviadas a fábrica.
var FactoryReturn = Schema{
	Name:       "Retur Pabrik",
	ListName:   "Retur Pabrik",
	Collection: "retur_pabriks",
	Path:       "/retur-pabriks",
	Fields:     []Field{shipmentNote, date, supplierName, issuerName, itemName},
	QtyKey:     KeyQty,
	QtyLabel:   "Qty",
}

// Schemas devuelve los cuatro recursos en orden de registro de rutas.
func Schemas() []Schema {
	return []Schema{Incoming, Outgoing, WarehouseReturn, FactoryReturn}
}
