// Package dto defines data transfer objects for the reports HTTP API.
package dto

// CreateReportReq represents the request body for POST /reports.
// Ranges mirror the product's validation rules for vehicle data.
type CreateReportReq struct {
	Make    string  `json:"make" binding:"required"`
	Model   string  `json:"model" binding:"required"`
	Year    int     `json:"year" binding:"required,gte=1930,lte=2050"`
	Mileage int     `json:"mileage" binding:"gte=0,lte=1000000"`
	Lng     float64 `json:"lng" binding:"gte=-180,lte=180"`
	Lat     float64 `json:"lat" binding:"gte=-90,lte=90"`
	Price   *int    `json:"price" binding:"required,gte=0,lte=1000000"`
}
