package integrity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"nuvyra_admin/internal/validation"
)

var (
	// ErrUnavailable 外部服务不可达或返回非 2xx。
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrNonConforming 输出不符合 schema。
	ErrNonConforming = errors.New("completion output does not conform to schema")
)

// 缺省值，与提示词保持一致。
const (
	DefaultName     = "Unknown Product"
	DefaultImage    = "https://placehold.co/300x300.png"
	DefaultCategory = "UNCATEGORIZED"
)

// ProductRecord 发送给模型的原始数据，字段可以为空。
type ProductRecord struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"is_active"`
	CreatedAt   *string `json:"created_at"`
}

// CorrectedProduct 模型返回的修正结果，必须通过校验才会展示或应用。
type CorrectedProduct struct {
	ID          string  `json:"id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"notblank,max=255"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Image       string  `json:"image" validate:"required,url"`
	Category    string  `json:"category" validate:"notblank,max=128"`
	IsActive    *bool   `json:"is_active" validate:"required"`
	CreatedAt   *string `json:"created_at" validate:"omitnil,rfc3339"`
}

// Result 修正后的数据和修正说明。
type Result struct {
	CorrectedProductData []CorrectedProduct `json:"correctedProductData" validate:"dive"`
	CorrectionsSummary   string             `json:"correctionsSummary"`
}

var promptTmpl = template.Must(template.New("integrity").Funcs(template.FuncMap{
	"val": func(s *string) string {
		if s == nil {
			return "null"
		}
		return *s
	},
	"bool": func(b *bool) string {
		if b == nil {
			return "null"
		}
		if *b {
			return "true"
		}
		return "false"
	},
}).Parse(`You are an expert in data quality and consistency. You are provided with an array of product data objects. Your task is to identify and correct any inconsistencies in the data, such as null or empty values for name, image, or category. Also, standardize the category field by trimming whitespace and converting to uppercase.

Here is the product data:
{{range .}}Product ID: {{.ID}}
Name: {{val .Name}}
Description: {{val .Description}}
Image: {{val .Image}}
Category: {{val .Category}}
Is Active: {{bool .IsActive}}
Created At (ISO 8601 Timestamp): {{val .CreatedAt}}
---
{{end}}
Return the corrected product data as an array of objects, ensuring that:
- All products have a non-null and non-empty name. If name is missing, use "` + DefaultName + `".
- All products have a non-null and non-empty image URL. If image is missing, use "` + DefaultImage + `".
- All products have a non-null and non-empty category, trimmed and in uppercase. If category is missing, use "` + DefaultCategory + `".
- 'is_active' is a boolean; default to true if null or missing.
- 'created_at' is an ISO 8601 timestamp string or null. Preserve valid timestamps. If 'created_at' is invalid or unparsable as an ISO 8601 timestamp, set it to null. Do not generate new timestamps for 'created_at'.

Also, provide a summary of the corrections you made.

Ensure the output is a valid JSON.
`))

// BuildPrompt renders the fixed instruction with the product rows.
func BuildPrompt(products []ProductRecord) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, products); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// OutputSchema 请求模型按此结构输出。
func OutputSchema() map[string]any {
	str := map[string]any{"type": "STRING"}
	nullableStr := map[string]any{"type": "STRING", "nullable": true}
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"correctedProductData": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"id":          str,
						"name":        str,
						"description": nullableStr,
						"image":       str,
						"category":    str,
						"is_active":   map[string]any{"type": "BOOLEAN"},
						"created_at":  nullableStr,
					},
					"required": []string{"id", "name", "image", "category", "is_active", "created_at"},
				},
			},
			"correctionsSummary": str,
		},
		"required": []string{"correctedProductData", "correctionsSummary"},
	}
}

// Corrector 把商品发送给补全服务并严格校验返回。
type Corrector struct {
	completer Completer
}

func NewCorrector(completer Completer) *Corrector {
	return &Corrector{completer: completer}
}

func (c *Corrector) Correct(ctx context.Context, products []ProductRecord) (*Result, error) {
	prompt, err := BuildPrompt(products)
	if err != nil {
		return nil, err
	}
	raw, err := c.completer.Complete(ctx, prompt, OutputSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var out Result
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonConforming, err)
	}
	known := make(map[string]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	if err := Validate(out.CorrectedProductData, known); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate 校验修正行：字段约束、分类已规范化、id 必须属于 known 且不重复。
// known 为 nil 时不检查 id 归属。
func Validate(rows []CorrectedProduct, known map[string]struct{}) error {
	verr := &validation.Error{}
	if err := validation.Struct(Result{CorrectedProductData: rows}); err != nil {
		var fe *validation.Error
		if !errors.As(err, &fe) {
			return err
		}
		verr = fe
	}
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		prefix := fmt.Sprintf("correctedProductData[%d]", i)
		if row.Category != validation.NormalizeCategory(row.Category) {
			verr.Add(prefix+".category", "must be trimmed and uppercase")
		}
		if _, dup := seen[row.ID]; dup {
			verr.Add(prefix+".id", "is duplicated")
		}
		seen[row.ID] = struct{}{}
		if known != nil {
			if _, ok := known[row.ID]; !ok {
				verr.Add(prefix+".id", "does not match a scanned product")
			}
		}
	}
	if len(verr.Fields) > 0 {
		return fmt.Errorf("%w: %v", ErrNonConforming, verr)
	}
	return nil
}
