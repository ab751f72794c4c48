package dto

// ApproveReportReq represents the request body for PATCH /reports/:id.
// Approved is a pointer so that an explicit false survives binding.
type ApproveReportReq struct {
	Approved *bool `json:"approved" binding:"required"`
}
