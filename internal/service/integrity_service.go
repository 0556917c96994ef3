package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nuvyra_admin/internal/integrity"
	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/validation"
)

// ScanResult 扫描结果：原始数据、修正后的数据和修正说明。
type ScanResult struct {
	Original  []model.Product              `json:"original"`
	Corrected []integrity.CorrectedProduct `json:"corrected"`
	Summary   string                       `json:"summary"`
}

// IntegrityService AI 数据完整性检查，受功能开关控制，任何异常都不落库。
type IntegrityService struct {
	enabled   bool
	corrector *integrity.Corrector
	repo      *repository.ProductRepository
	products  *ProductService
}

func NewIntegrityService(enabled bool, corrector *integrity.Corrector, repo *repository.ProductRepository, products *ProductService) *IntegrityService {
	return &IntegrityService{enabled: enabled, corrector: corrector, repo: repo, products: products}
}

func (s *IntegrityService) Enabled() bool {
	return s.enabled && s.corrector != nil
}

func toRecord(p model.Product) integrity.ProductRecord {
	name, image, category := p.Name, p.Image, p.Category
	active := p.IsActive
	rec := integrity.ProductRecord{
		ID:          p.ID,
		Name:        &name,
		Description: p.Description,
		Image:       &image,
		Category:    &category,
		IsActive:    &active,
	}
	if !p.CreatedAt.IsZero() {
		ts := p.CreatedAt.UTC().Format(time.RFC3339)
		rec.CreatedAt = &ts
	}
	return rec
}

// Scan 把全部商品交给模型修正，只返回通过校验的结果，不写库。
func (s *IntegrityService) Scan(ctx context.Context) (*ScanResult, error) {
	if !s.Enabled() {
		return nil, ErrFeatureDisabled
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return &ScanResult{Original: all, Corrected: []integrity.CorrectedProduct{}, Summary: "No products to scan."}, nil
	}
	records := make([]integrity.ProductRecord, 0, len(all))
	for _, p := range all {
		records = append(records, toRecord(p))
	}
	res, err := s.corrector.Correct(ctx, records)
	if err != nil {
		zap.L().Warn("integrity scan rejected", zap.Int("products", len(all)), zap.Error(err))
		return nil, err
	}
	return &ScanResult{Original: all, Corrected: res.CorrectedProductData, Summary: res.CorrectionsSummary}, nil
}

// Apply 先整体校验（任何一行不合法则全部不写），再逐行走普通的更新流程。
// 价格不在修正数据里，沿用库中现值。
func (s *IntegrityService) Apply(ctx context.Context, rows []integrity.CorrectedProduct) (BulkResult, error) {
	res := BulkResult{Requested: len(rows)}
	if !s.Enabled() {
		return res, ErrFeatureDisabled
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		return res, err
	}
	stored := make(map[string]model.Product, len(all))
	known := make(map[string]struct{}, len(all))
	for _, p := range all {
		stored[p.ID] = p
		known[p.ID] = struct{}{}
	}
	if err := integrity.Validate(rows, known); err != nil {
		return res, err
	}

	forms := make([]validation.ProductForm, 0, len(rows))
	for i, row := range rows {
		price := stored[row.ID].Price
		form := validation.ProductForm{
			Name:        row.Name,
			Description: row.Description,
			Image:       row.Image,
			Category:    row.Category,
			Price:       &price,
			IsActive:    (*validation.FlexBool)(row.IsActive),
		}
		if _, err := form.Validate(); err != nil {
			return res, fmt.Errorf("%w: row %d: %v", integrity.ErrNonConforming, i, err)
		}
		forms = append(forms, form)
	}

	var errs []error
	for i, form := range forms {
		if _, err := s.products.Update(ctx, rows[i].ID, form); err != nil {
			zap.L().Error("apply correction failed", zap.String("id", rows[i].ID), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		res.Succeeded++
	}
	return res, errors.Join(errs...)
}
