package handler

import (
	"encoding/json"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Listings ---

// Price and Rooms are json.Number so the same struct binds from a JSON body
// (numbers) and from multipart form fields (text).

type createListingRequest struct {
	Title       string      `json:"title"       form:"title"       validate:"required"`
	Description string      `json:"description" form:"description" validate:"required"`
	Price       json.Number `json:"price"       form:"price"       validate:"required,numeric"`
	Category    string      `json:"category"    form:"category"    validate:"required,oneof=Apartament Garsoniera Casa Teren Garaj Altul"`
	Transaction string      `json:"type"        form:"type"        validate:"omitempty,oneof=vanzare inchiriere"`
	Location    string      `json:"location"    form:"location"`
	Rooms       json.Number `json:"rooms"       form:"rooms"       validate:"omitempty,numeric"`
	Status      string      `json:"status"      form:"status"`
}

// updateListingRequest has no required fields; empty fields keep their value.
// KeptImages is only read from JSON bodies, multipart requests send it as the
// keptImages form value.
type updateListingRequest struct {
	Title       string          `json:"title"       form:"title"`
	Description string          `json:"description" form:"description"`
	Price       json.Number     `json:"price"       form:"price"       validate:"omitempty,numeric"`
	Category    string          `json:"category"    form:"category"    validate:"omitempty,oneof=Apartament Garsoniera Casa Teren Garaj Altul"`
	Transaction string          `json:"type"        form:"type"        validate:"omitempty,oneof=vanzare inchiriere"`
	Location    string          `json:"location"    form:"location"`
	Rooms       json.Number     `json:"rooms"       form:"rooms"       validate:"omitempty,numeric"`
	Status      string          `json:"status"      form:"status"`
	KeptImages  json.RawMessage `json:"keptImages"`
}
