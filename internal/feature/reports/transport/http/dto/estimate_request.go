package dto

// EstimateReq represents the query parameters for GET /reports.
type EstimateReq struct {
	Make    string  `form:"make" binding:"required"`
	Model   string  `form:"model" binding:"required"`
	Year    int     `form:"year" binding:"required,gte=1930,lte=2050"`
	Mileage int     `form:"mileage" binding:"gte=0,lte=1000000"`
	Lng     float64 `form:"lng" binding:"gte=-180,lte=180"`
	Lat     float64 `form:"lat" binding:"gte=-90,lte=90"`
}
