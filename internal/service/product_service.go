package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/queue"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/validation"
	rediskey "nuvyra_admin/pkg/redis"
)

const (
	PathProducts = "/admin/products"
	PathSettings = "/admin/settings"
)

// EditPath 商品编辑页路径。
func EditPath(id string) string {
	return PathProducts + "/edit/" + id
}

// ImageRehoster 把外部图片转存到图床，失败时原样返回。
type ImageRehoster interface {
	Rehost(ctx context.Context, url string) string
}

// ProductService 商品的增删改查：校验 -> 写库 -> 缓存失效 -> 发布重新验证事件。
type ProductService struct {
	repo      *repository.ProductRepository
	cache     *rediskey.ProductCache
	publisher queue.Publisher
	images    ImageRehoster
}

// NewProductService 构造服务；cache、images 可以为 nil，publisher 为 nil 时不发布事件。
func NewProductService(repo *repository.ProductRepository, cache *rediskey.ProductCache, publisher queue.Publisher, images ImageRehoster) *ProductService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &ProductService{repo: repo, cache: cache, publisher: publisher, images: images}
}

func (s *ProductService) rehost(ctx context.Context, form validation.ProductForm) validation.ProductForm {
	if s.images != nil && form.Image != "" {
		form.Image = s.images.Rehost(ctx, form.Image)
	}
	return form
}

func productValues(d validation.ProductData) map[string]any {
	return map[string]any{
		model.ColName:        d.Name,
		model.ColDescription: d.Description,
		model.ColImage:       d.Image,
		model.ColCategory:    d.Category,
		model.ColPrice:       d.Price,
		model.ColIsActive:    d.IsActive,
	}
}

func (s *ProductService) Create(ctx context.Context, form validation.ProductForm) (*model.Product, error) {
	data, err := s.rehost(ctx, form).Validate()
	if err != nil {
		return nil, err
	}
	p := &model.Product{
		Name:        data.Name,
		Description: data.Description,
		Image:       data.Image,
		Category:    data.Category,
		Price:       data.Price,
		IsActive:    data.IsActive,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.changed(ctx, queue.EventProductCreated, []string{p.ID}, PathProducts)
	return p, nil
}

// Update 只写可变列，created_at 保持不变；返回重新读取的行。
// 表单未带 price 或 is_active 时保留库里的值。
func (s *ProductService) Update(ctx context.Context, id string, form validation.ProductForm) (*model.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	data, err := s.rehost(ctx, form).ValidateWithDefaults(current.Price, current.IsActive)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, productValues(data)); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.changed(ctx, queue.EventProductUpdated, []string{id}, PathProducts, EditPath(id))
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.changed(ctx, queue.EventProductDeleted, []string{id}, PathProducts)
	return nil
}

// Toggle 切换单个布尔字段，字段名必须在 validation.ToggleableFields 中。
func (s *ProductService) Toggle(ctx context.Context, id, field string, value bool) (*model.Product, error) {
	if err := validation.ValidateToggleField(field); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]any{field: value}); err != nil {
		return nil, fmt.Errorf("toggle product: %w", err)
	}
	s.changed(ctx, queue.EventProductUpdated, []string{id}, PathProducts, EditPath(id))
	return s.repo.GetByID(ctx, id)
}

// BulkDelete 一条语句删除多行；出错时 succeeded 为 0。
func (s *ProductService) BulkDelete(ctx context.Context, ids []string) (BulkResult, error) {
	valid, requested := validation.BulkIDs(ids)
	res := BulkResult{Requested: requested}
	n, err := s.repo.DeleteMany(ctx, valid)
	if err != nil {
		return res, fmt.Errorf("bulk delete: %w", err)
	}
	res.Succeeded = n
	if n > 0 {
		s.changed(ctx, queue.EventProductDeleted, valid, PathProducts)
	}
	return res, nil
}

// BulkSetActive 一条语句批量上下架。
func (s *ProductService) BulkSetActive(ctx context.Context, ids []string, active bool) (BulkResult, error) {
	valid, requested := validation.BulkIDs(ids)
	res := BulkResult{Requested: requested}
	n, err := s.repo.SetActiveMany(ctx, valid, active)
	if err != nil {
		return res, fmt.Errorf("bulk set active: %w", err)
	}
	res.Succeeded = n
	if n > 0 {
		paths := []string{PathProducts}
		for _, id := range valid {
			paths = append(paths, EditPath(id))
		}
		s.changed(ctx, queue.EventProductUpdated, valid, paths...)
	}
	return res, nil
}

// Get 先读缓存，未命中再查库并回填。
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	var (
		version int64
		fill    bool
	)
	if s.cache != nil {
		p, v, ok, err := s.cache.GetProduct(ctx, id)
		if err != nil {
			zap.L().Warn("product cache read failed", zap.String("id", id), zap.Error(err))
		} else if ok {
			return p, nil
		} else {
			version, fill = v, true
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fill {
		if err := s.cache.SetProduct(ctx, version, p); err != nil {
			zap.L().Warn("product cache write failed", zap.String("id", id), zap.Error(err))
		}
	}
	return p, nil
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]model.Product, error) {
	f = f.Normalized()
	active := "any"
	if f.IsActive != nil {
		active = strconv.FormatBool(*f.IsActive)
	}
	fp := rediskey.Fingerprint(fmt.Sprintf("list|%s|%s|%s|%s", f.Category, active, f.SortBy, f.SortOrder))

	var list []model.Product
	version, hit, fill := s.readList(ctx, fp, &list)
	if hit {
		return list, nil
	}
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if fill {
		s.writeList(ctx, version, fp, list)
	}
	return list, nil
}

func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	fp := rediskey.Fingerprint("categories")
	var cats []string
	version, hit, fill := s.readList(ctx, fp, &cats)
	if hit {
		return cats, nil
	}
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if fill {
		s.writeList(ctx, version, fp, cats)
	}
	return cats, nil
}

// readList 返回读到的列表版本、是否命中、未命中时是否应回填。
// 缓存不可用时不回填。
func (s *ProductService) readList(ctx context.Context, fp string, dst any) (version int64, hit, fill bool) {
	if s.cache == nil {
		return 0, false, false
	}
	version, ok, err := s.cache.GetList(ctx, fp, dst)
	if err != nil {
		zap.L().Warn("list cache read failed", zap.Error(err))
		return 0, false, false
	}
	return version, ok, !ok
}

// writeList 回填到读缓存时拿到的版本下。
func (s *ProductService) writeList(ctx context.Context, version int64, fp string, value any) {
	if err := s.cache.SetList(ctx, version, fp, value); err != nil {
		zap.L().Warn("list cache write failed", zap.Error(err))
	}
}

// changed 写库成功后的收尾：缓存失效 + 发布事件，失败只记日志。
func (s *ProductService) changed(ctx context.Context, eventType string, ids []string, paths ...string) {
	if s.cache != nil {
		if err := s.cache.InvalidateList(ctx); err != nil {
			zap.L().Warn("invalidate list cache failed", zap.Error(err))
		}
		if err := s.cache.InvalidateProducts(ctx, ids...); err != nil {
			zap.L().Warn("invalidate product cache failed", zap.Strings("ids", ids), zap.Error(err))
		}
	}
	publish(ctx, s.publisher, queue.NewCatalogEvent(eventType, ids, paths...))
}

func publish(ctx context.Context, p queue.Publisher, evt queue.CatalogEvent) {
	if err := p.Publish(ctx, evt); err != nil {
		zap.L().Error("publish catalog event failed",
			zap.String("type", evt.Type),
			zap.Strings("paths", evt.Paths),
			zap.Error(err))
	}
}
