package http

import (
	"time"

	"github.com/grandoak/hospital-backend/internal/ward"
)

type CreateWardBody struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
}

type UpdateWardBody struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
}

type CreateBedBody struct {
	WardID string `json:"ward_id" binding:"required,uuid"`
	Label  string `json:"label" binding:"required"`
}

type WardResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Capacity         int       `json:"capacity"`
	CurrentOccupancy int       `json:"current_occupancy"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewWardResponse(w *ward.Ward) WardResponse {
	return WardResponse{
		ID:               w.ID,
		Name:             w.Name,
		Capacity:         w.Capacity,
		CurrentOccupancy: w.CurrentOccupancy,
		IsActive:         w.IsActive,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

type BedResponse struct {
	ID        string    `json:"id"`
	WardID    string    `json:"ward_id"`
	Label     string    `json:"label"`
	Status    string    `json:"status"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBedResponse(b *ward.Bed) BedResponse {
	return BedResponse{
		ID:        b.ID,
		WardID:    b.WardID,
		Label:     b.Label,
		Status:    string(b.Status),
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
