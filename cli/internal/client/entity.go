// ABOUTME: Generic CRUD client for the proxied healthcare entities
// ABOUTME: One EntityService[T] per entity, plus concurrent bulk delete and CSV export

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/jacksmith315/homealign-dashboard/models"
)

// Params are list filters. Empty values are dropped from the query string.
type Params map[string]string

func (p Params) values() url.Values {
	v := url.Values{}
	for key, val := range p {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// EntityService reads and writes one entity type through the data proxy
type EntityService[T any] struct {
	client *Client
	entity string
}

// NewEntityService binds an entity name such as "patients" to a client
func NewEntityService[T any](c *Client, entity string) *EntityService[T] {
	return &EntityService[T]{client: c, entity: entity}
}

func Patients(c *Client) *EntityService[models.Patient] {
	return NewEntityService[models.Patient](c, models.EntityPatients)
}

func Clients(c *Client) *EntityService[models.Client] {
	return NewEntityService[models.Client](c, models.EntityClients)
}

func Providers(c *Client) *EntityService[models.Provider] {
	return NewEntityService[models.Provider](c, models.EntityProviders)
}

func Referrals(c *Client) *EntityService[models.Referral] {
	return NewEntityService[models.Referral](c, models.EntityReferrals)
}

func Services(c *Client) *EntityService[models.Service] {
	return NewEntityService[models.Service](c, models.EntityServices)
}

func (s *EntityService[T]) collectionPath() string {
	return "/api/data/" + s.entity
}

func (s *EntityService[T]) itemPath(id string) string {
	return "/api/data/" + s.entity + "/" + url.PathEscape(id)
}

// List returns one page of entities matching params
func (s *EntityService[T]) List(ctx context.Context, params Params) (*models.PaginatedResponse[T], error) {
	resp, err := s.client.do(ctx, http.MethodGet, s.collectionPath(), params.values(), nil)
	if err != nil {
		return nil, err
	}

	var page models.PaginatedResponse[T]
	if err := decodeResponse(resp, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns a single entity
func (s *EntityService[T]) Get(ctx context.Context, id string) (*T, error) {
	resp, err := s.client.do(ctx, http.MethodGet, s.itemPath(id), nil, nil)
	if err != nil {
		return nil, err
	}

	var item T
	if err := decodeResponse(resp, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new entity and returns the backend's copy
func (s *EntityService[T]) Create(ctx context.Context, item T) (*T, error) {
	return s.write(ctx, http.MethodPost, s.collectionPath(), item)
}

// Update replaces an entity and returns the backend's copy
func (s *EntityService[T]) Update(ctx context.Context, id string, item T) (*T, error) {
	return s.write(ctx, http.MethodPut, s.itemPath(id), item)
}

func (s *EntityService[T]) write(ctx context.Context, method, path string, item T) (*T, error) {
	body, err := encodeBody(item)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.do(ctx, method, path, nil, body)
	if err != nil {
		return nil, err
	}

	var saved T
	if err := decodeResponse(resp, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes an entity
func (s *EntityService[T]) Delete(ctx context.Context, id string) error {
	resp, err := s.client.do(ctx, http.MethodDelete, s.itemPath(id), nil, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// BulkDelete deletes every id concurrently and waits for all of them.
// It returns the first failure; deletes that already succeeded stay deleted.
func (s *EntityService[T]) BulkDelete(ctx context.Context, ids []string) error {
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			if err := s.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete %s %s: %w", s.entity, id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Export streams the entity list as CSV into w
func (s *EntityService[T]) Export(ctx context.Context, params Params, w io.Writer) (int64, error) {
	query := params.values()
	query.Set("format", "csv")

	resp, err := s.client.do(ctx, http.MethodGet, s.collectionPath(), query, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, handleErrorResponse(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("export interrupted after %d bytes: %w", n, err)
	}
	return n, nil
}

// LookupService reads reference lists such as referral statuses
type LookupService struct {
	client *Client
}

func NewLookupService(c *Client) *LookupService {
	return &LookupService{client: c}
}

// Get returns the lookup list named kind (see models.LookupTypes)
func (l *LookupService) Get(ctx context.Context, kind string) ([]models.LookupItem, error) {
	resp, err := l.client.do(ctx, http.MethodGet, "/api/data/lookup", url.Values{"type": {kind}}, nil)
	if err != nil {
		return nil, err
	}

	var items []models.LookupItem
	if err := decodeResponse(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}
