package dto

import "github.com/jhoicas/Gudang-api/internal/domain/entity"

// RecordResponse salida de create/update/delete. Data se omite en delete.
type RecordResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    *entity.Record `json:"data,omitempty"`
}

// RecordListResponse lista paginada de registros.
type RecordListResponse struct {
	Status     string           `json:"status"`
	Message    string           `json:"message"`
	Data       []*entity.Record `json:"data"`
	Pagination PageResponse     `json:"pagination"`
}
