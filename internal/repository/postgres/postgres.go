// Package postgres implements the Repository port on top of
// gorm.io/gorm: a handful of promoted columns (uuid, fid, title, parent,
// mimetype) for indexable lookups plus a JSONB `envelope` column
// carrying the full node metadata. DNF filters translate to
// raw SQL via nodefilter/translate.ToSQL and are always post-filtered.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/antbox/antbox/internal/node"
	"github.com/antbox/antbox/internal/nodefilter"
	"github.com/antbox/antbox/internal/nodefilter/translate"
	"github.com/antbox/antbox/internal/repository"
	"github.com/antbox/antbox/internal/result"
)

// row is the gorm model backing the antbox_nodes table.
type row struct {
	UUID     string `gorm:"column:uuid;primaryKey"`
	Fid      string `gorm:"column:fid;uniqueIndex"`
	Title    string `gorm:"column:title"`
	Parent   string `gorm:"column:parent;index"`
	Mimetype string `gorm:"column:mimetype;index"`
	Envelope []byte `gorm:"column:envelope"` // JSONB; the node metadata as encoded by marshalEnvelope
}

func (row) TableName() string { return "antbox_nodes" }

// Store is a gorm-backed Repository.
type Store struct {
	db *gorm.DB
}

// New wraps an already-connected *gorm.DB; dial string construction and
// AutoMigrate are the caller's responsibility.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ repository.Repository = (*Store)(nil)

// AutoMigrate creates/updates the antbox_nodes table.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&row{})
}

func toRow(n *node.Node) (row, error) {
	envelope, err := marshalEnvelope(n)
	if err != nil {
		return row{}, err
	}
	return row{
		UUID: n.UUID, Fid: n.Fid, Title: n.Title,
		Parent: n.Parent, Mimetype: string(n.Kind), Envelope: envelope,
	}, nil
}

func fromRow(r row) (*node.Node, error) {
	m, err := unmarshalEnvelope(r.Envelope)
	if err != nil {
		return nil, err
	}
	return node.FromMetadata(m)
}

func (s *Store) Add(ctx context.Context, n *node.Node) *result.Error {
	r, err := toRow(n)
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "encode envelope", err)
	}
	if tx := s.db.WithContext(ctx).Create(&r); tx.Error != nil {
		return result.Duplicated("node with this uuid or fid already exists")
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, uuid string) (*node.Node, *result.Error) {
	var r row
	if tx := s.db.WithContext(ctx).First(&r, "uuid = ?", uuid); tx.Error != nil {
		return nil, result.NotFound("node not found: " + uuid)
	}
	n, err := fromRow(r)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt envelope", err)
	}
	return n, nil
}

func (s *Store) GetByFid(ctx context.Context, fid string) (*node.Node, *result.Error) {
	var r row
	if tx := s.db.WithContext(ctx).First(&r, "fid = ?", fid); tx.Error != nil {
		return nil, result.NotFound("node not found for fid: " + fid)
	}
	n, err := fromRow(r)
	if err != nil {
		return nil, result.Wrap(result.CodeUnknownError, "corrupt envelope", err)
	}
	return n, nil
}

func (s *Store) Update(ctx context.Context, n *node.Node) *result.Error {
	r, err := toRow(n)
	if err != nil {
		return result.Wrap(result.CodeUnknownError, "encode envelope", err)
	}
	tx := s.db.WithContext(ctx).Model(&row{}).Where("uuid = ?", n.UUID).Updates(map[string]any{
		"fid": r.Fid, "title": r.Title, "parent": r.Parent, "mimetype": r.Mimetype, "envelope": r.Envelope,
	})
	if tx.Error != nil {
		return result.Wrap(result.CodeUnknownError, "update failed", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return result.NotFound("node not found: " + n.UUID)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, uuid string) *result.Error {
	tx := s.db.WithContext(ctx).Delete(&row{}, "uuid = ?", uuid)
	if tx.Error != nil {
		return result.Wrap(result.CodeUnknownError, "delete failed", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return result.NotFound("node not found: " + uuid)
	}
	return nil
}

func (s *Store) Filter(ctx context.Context, filters nodefilter.Filters, pageSize, pageToken int) (repository.Page, *result.Error) {
	if pageSize <= 0 {
		pageSize = repository.DefaultPageSize
	}
	if pageToken <= 0 {
		pageToken = 1
	}

	where, args := translate.ToSQL(filters)
	query := s.db.WithContext(ctx).Model(&row{})
	if where != "" {
		query = query.Where(where, args...)
	}

	var rows []row
	// Over-fetch; see couchdb.Filter for the same over-approximation note.
	if tx := query.Order("uuid").Limit(pageSize * pageToken * 4).Find(&rows); tx.Error != nil {
		return repository.Page{}, result.Wrap(result.CodeUnknownError, "query failed", tx.Error)
	}

	var matched []*node.Node
	for _, r := range rows {
		n, err := fromRow(r)
		if err != nil {
			continue
		}
		if filters.IsEmpty() || nodefilter.Evaluate(filters, n) {
			matched = append(matched, n)
		}
	}

	start := (pageToken - 1) * pageSize
	if start >= len(matched) {
		return repository.Page{Nodes: []*node.Node{}, PageSize: pageSize, PageToken: pageToken}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return repository.Page{Nodes: matched[start:end], PageSize: pageSize, PageToken: pageToken}, nil
}
