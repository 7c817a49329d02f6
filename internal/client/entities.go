package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/base44-io/base44-client/internal/http"
	"github.com/base44-io/base44-client/pkg/base44"
)

// EntityClient implements base44.EntityClient for one entity name. It holds
// no per-entity state beyond the name; every operation is one executor call.
type EntityClient struct {
	httpClient *http.Client
	basePath   string
	name       string
}

// NewEntityClient creates the CRUD handle for an entity name. Names are not
// validated; unknown names 404 at the backend.
func NewEntityClient(httpClient *http.Client, basePath, name string) *EntityClient {
	return &EntityClient{
		httpClient: httpClient,
		basePath:   basePath,
		name:       name,
	}
}

func (c *EntityClient) collectionPath() string {
	return fmt.Sprintf("%s/entities/%s", c.basePath, url.PathEscape(c.name))
}

func (c *EntityClient) itemPath(id string) string {
	return fmt.Sprintf("%s/%s", c.collectionPath(), url.PathEscape(id))
}

// List implements base44.EntityClient.List.
func (c *EntityClient) List(ctx context.Context, params *base44.QueryParams) ([]base44.Entity, error) {
	resp, err := c.httpClient.Get(ctx, c.collectionPath(), params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s entities: %w", c.name, err)
	}

	var entities []base44.Entity
	if err := json.Unmarshal(resp.Body, &entities); err != nil {
		return nil, fmt.Errorf("parsing %s list response: %w", c.name, err)
	}

	return entities, nil
}

// Filter implements base44.EntityClient.Filter. The query map is merged into
// the filter query parameters.
func (c *EntityClient) Filter(ctx context.Context, query map[string]interface{}, params *base44.QueryParams) ([]base44.Entity, error) {
	values := params.ToValues()

	for field, vals := range base44.FiltersFromMap(query) {
		values.Set(field, strings.Join(vals, ","))
	}

	resp, err := c.httpClient.Get(ctx, c.collectionPath(), values)
	if err != nil {
		return nil, fmt.Errorf("filtering %s entities: %w", c.name, err)
	}

	var entities []base44.Entity
	if err := json.Unmarshal(resp.Body, &entities); err != nil {
		return nil, fmt.Errorf("parsing %s filter response: %w", c.name, err)
	}

	return entities, nil
}

// Get implements base44.EntityClient.Get.
func (c *EntityClient) Get(ctx context.Context, id string) (base44.Entity, error) {
	resp, err := c.httpClient.Get(ctx, c.itemPath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting %s %s: %w", c.name, id, err)
	}

	var entity base44.Entity
	if err := json.Unmarshal(resp.Body, &entity); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.name, err)
	}

	return entity, nil
}

// Create implements base44.EntityClient.Create.
func (c *EntityClient) Create(ctx context.Context, fields map[string]interface{}) (base44.Entity, error) {
	resp, err := c.httpClient.Post(ctx, c.collectionPath(), fields)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", c.name, err)
	}

	var entity base44.Entity
	if err := json.Unmarshal(resp.Body, &entity); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.name, err)
	}

	return entity, nil
}

// Update implements base44.EntityClient.Update. Unspecified fields are left
// untouched by the backend.
func (c *EntityClient) Update(ctx context.Context, id string, fields map[string]interface{}) (base44.Entity, error) {
	resp, err := c.httpClient.Put(ctx, c.itemPath(id), fields)
	if err != nil {
		return nil, fmt.Errorf("updating %s %s: %w", c.name, id, err)
	}

	var entity base44.Entity
	if err := json.Unmarshal(resp.Body, &entity); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", c.name, err)
	}

	return entity, nil
}

// Delete implements base44.EntityClient.Delete. An empty response body
// resolves with no value.
func (c *EntityClient) Delete(ctx context.Context, id string) error {
	_, err := c.httpClient.Delete(ctx, c.itemPath(id), nil)
	if err != nil {
		return fmt.Errorf("deleting %s %s: %w", c.name, id, err)
	}

	return nil
}

// DeleteMany implements base44.EntityClient.DeleteMany. The filter is
// carried as query parameters on the collection path.
func (c *EntityClient) DeleteMany(ctx context.Context, query map[string]interface{}) error {
	values := url.Values{}
	for field, vals := range base44.FiltersFromMap(query) {
		values.Set(field, strings.Join(vals, ","))
	}

	_, err := c.httpClient.Delete(ctx, c.collectionPath(), values)
	if err != nil {
		return fmt.Errorf("bulk deleting %s entities: %w", c.name, err)
	}

	return nil
}

// BulkCreate implements base44.EntityClient.BulkCreate. Atomicity is a
// backend contract, not enforced here.
func (c *EntityClient) BulkCreate(ctx context.Context, records []map[string]interface{}) ([]base44.Entity, error) {
	resp, err := c.httpClient.Post(ctx, c.collectionPath()+"/bulk", records)
	if err != nil {
		return nil, fmt.Errorf("bulk creating %s entities: %w", c.name, err)
	}

	var entities []base44.Entity
	if err := json.Unmarshal(resp.Body, &entities); err != nil {
		return nil, fmt.Errorf("parsing %s bulk response: %w", c.name, err)
	}

	return entities, nil
}

// Import implements base44.EntityClient.Import as a multipart upload.
func (c *EntityClient) Import(ctx context.Context, filename string, file io.Reader) (base44.ImportResult, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}

	_, err = io.Copy(part, file)
	if err != nil {
		return nil, fmt.Errorf("writing file to form: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	resp, err := c.httpClient.PostRaw(ctx, c.collectionPath()+"/import", buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return nil, fmt.Errorf("importing %s entities: %w", c.name, err)
	}

	result := base44.ImportResult{}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, fmt.Errorf("parsing import response: %w", err)
		}
	}

	return result, nil
}
