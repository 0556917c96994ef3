package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/validation"
)

// ErrNotFound 统一的记录不存在错误。
var ErrNotFound = errors.New("record not found")

const (
	SortByName      = "name"
	SortByCreatedAt = "created_at"
	SortAsc         = "asc"
	SortDesc        = "desc"
)

// ProductFilter 列表查询条件；零值表示不过滤、按名称升序。
type ProductFilter struct {
	Category  string
	IsActive  *bool
	SortBy    string
	SortOrder string
}

// Normalized 规范化分类并把未知排序参数回退为默认值。
func (f ProductFilter) Normalized() ProductFilter {
	f.Category = validation.NormalizeCategory(f.Category)
	if f.SortBy != SortByCreatedAt {
		f.SortBy = SortByName
	}
	if f.SortOrder != SortDesc {
		f.SortOrder = SortAsc
	}
	return f
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]model.Product, error) {
	f = f.Normalized()
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.IsActive != nil {
		query = query.Where("is_active = ?", *f.IsActive)
	}
	query = query.Order(clause.OrderByColumn{
		Column: clause.Column{Name: f.SortBy},
		Desc:   f.SortOrder == SortDesc,
	}).Order("id")

	list := make([]model.Product, 0)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// All 返回全部商品，供数据完整性扫描使用。
func (r *ProductRepository) All(ctx context.Context) ([]model.Product, error) {
	list := make([]model.Product, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Order("id").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Categories 返回去重、规范化并按字典序排列的分类，用于筛选下拉框。
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var raw []string
	if err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category <> ?", "").
		Pluck("category", &raw).Error; err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		n := validation.NormalizeCategory(c)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update 只写入 values 中属于 model.MutableColumns 的列，其余键被忽略；不修改 values。
func (r *ProductRepository) Update(ctx context.Context, id string, values map[string]any) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	cols := make(map[string]any, len(values))
	for _, c := range model.MutableColumns {
		if v, ok := values[c]; ok {
			cols[c] = v
		}
	}
	if len(cols) == 0 {
		return errors.New("no mutable columns to update")
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany 单条语句批量删除，返回实际删除行数。
func (r *ProductRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}

// SetActiveMany 单条语句批量设置 is_active，返回实际更新行数。
func (r *ProductRepository) SetActiveMany(ctx context.Context, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id IN ?", ids).
		Update(model.ColIsActive, active)
	return res.RowsAffected, res.Error
}
