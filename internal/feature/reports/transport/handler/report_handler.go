// Package handler はreportsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carvalue_backend/internal/feature/reports/domain/entity"
	"carvalue_backend/internal/feature/reports/transport/http/dto"
	"carvalue_backend/internal/feature/reports/usecase"
	jwtmw "carvalue_backend/internal/platform/jwt"
	"carvalue_backend/internal/shared/projection"
)

// reportProjection はクライアントに公開するレポートフィールドのホワイトリストです。
// 所有者参照（UserID）は公開されません。
var reportProjection = projection.New(
	"id", "make", "model", "year", "mileage", "lng", "lat", "price", "approved",
)

// ReportsUsecase はレポート操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type ReportsUsecase interface {
	CreateReport(ctx context.Context, userID uint, report *entity.Report) (*entity.Report, error)
	ChangeApproval(ctx context.Context, id uint, approved bool) (*entity.Report, error)
	EstimatePrice(ctx context.Context, q usecase.EstimateQuery) (*float64, error)
}

// ReportHandler はレポート操作のHTTPリクエストを処理します。
type ReportHandler struct {
	reports ReportsUsecase
}

// NewReportHandler はReportHandlerの新しいインスタンスを生成します。
func NewReportHandler(reports ReportsUsecase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create は認証済みユーザーの新規レポートを登録します。
// ルート側のAuthRequiredガードが認証を保証します。
func (h *ReportHandler) Create(c *gin.Context) {
	user, ok := jwtmw.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.CreateReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("create report validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report := &entity.Report{
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Mileage: req.Mileage,
		Lng:     req.Lng,
		Lat:     req.Lat,
		Price:   *req.Price,
	}
	created, err := h.reports.CreateReport(c.Request.Context(), user.ID, report)
	if err != nil {
		slog.Error("failed to create report", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, reportProjection.Apply(created))
}

// Approve はレポートの承認フラグを変更します。
// ルート側のAdminRequiredガードが管理者権限を保証します。
func (h *ReportHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req dto.ApproveReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report, err := h.reports.ChangeApproval(c.Request.Context(), uint(id), *req.Approved)
	if err != nil {
		if errors.Is(err, usecase.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		slog.Error("failed to change report approval", "error", err, "report_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, reportProjection.Apply(report))
}

// Estimate は承認済みレポートに基づく推定価格を返します。
// 比較対象が無い場合、priceはnullになります。
func (h *ReportHandler) Estimate(c *gin.Context) {
	var req dto.EstimateReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	price, err := h.reports.EstimatePrice(c.Request.Context(), usecase.EstimateQuery{
		Make:    req.Make,
		Model:   req.Model,
		Year:    req.Year,
		Mileage: req.Mileage,
		Lng:     req.Lng,
		Lat:     req.Lat,
	})
	if err != nil {
		slog.Error("failed to estimate price", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}
