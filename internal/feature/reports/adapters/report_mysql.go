// Package adapters はreportsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"carvalue_backend/internal/feature/reports/domain/entity"
	"carvalue_backend/internal/feature/reports/usecase"
)

const (
	// estimate comparison windows, matching the product's pricing rules
	yearWindow    = 3
	coordWindow   = 5.0
	maxComparable = 3
)

// reportMySQL はReportRepositoryインターフェースのGORM実装です。
type reportMySQL struct {
	db *gorm.DB
}

var _ usecase.ReportRepository = (*reportMySQL)(nil)

// NewReportMySQL は指定されたgorm.DB接続でreportMySQLの新しいインスタンスを生成します。
func NewReportMySQL(db *gorm.DB) *reportMySQL {
	return &reportMySQL{db: db}
}

// Create はレポートをデータベースに追加します。
func (r *reportMySQL) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// FindByID はIDでレポートを取得します。
// レポートが存在しない場合、usecase.ErrReportNotFoundを返します。
func (r *reportMySQL) FindByID(ctx context.Context, id uint) (*entity.Report, error) {
	var report entity.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// Save は既存レポートの変更を永続化します。
func (r *reportMySQL) Save(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

// Estimate は走行距離が最も近い承認済みレポート最大3件の平均価格を返します。
// 比較対象が無い場合はnilを返します。
func (r *reportMySQL) Estimate(ctx context.Context, q usecase.EstimateQuery) (*float64, error) {
	var prices []float64
	err := r.db.WithContext(ctx).
		Model(&entity.Report{}).
		Where("make = ? AND model = ?", q.Make, q.Model).
		Where("year BETWEEN ? AND ?", q.Year-yearWindow, q.Year+yearWindow).
		Where("lng BETWEEN ? AND ?", q.Lng-coordWindow, q.Lng+coordWindow).
		Where("lat BETWEEN ? AND ?", q.Lat-coordWindow, q.Lat+coordWindow).
		Where("approved = ?", true).
		// Mileageはintなのでフォーマット済みSQLでも注入の余地は無い
		Order(fmt.Sprintf("ABS(mileage - %d)", q.Mileage)).
		Limit(maxComparable).
		Pluck("price", &prices).Error
	if err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, nil
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}
	avg := sum / float64(len(prices))
	return &avg, nil
}
