package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/clinic-records/internal/model"
)

// All repository interfaces in one file
type (
	// RecordTx is the staged view handed to a WithTx callback. Nothing it
	// writes is visible outside the callback until the callback returns nil.
	RecordTx interface {
		// Now is the clock reading taken when the transaction began.
		Now() time.Time
		Get(kind model.EntityKind, id string) (model.Entity, error)
		// NextID reserves the next id of kind. The reservation is released if
		// the transaction does not commit.
		NextID(kind model.EntityKind) (string, error)
		Insert(e model.Entity) error
		Replace(e model.Entity) error
		// AppendAudit assigns the entry id and timestamp and stages it.
		AppendAudit(entry model.AuditEntry) model.AuditEntry
	}

	// RecordRepository stores every entity kind in insertion order.
	RecordRepository interface {
		Get(ctx context.Context, kind model.EntityKind, id string) (model.Entity, error)
		List(ctx context.Context, kind model.EntityKind) ([]model.Entity, error)
		WithTx(ctx context.Context, fn func(tx RecordTx) error) error
	}

	// AuditRepository exposes the audit trail read-only; entries are only
	// ever added through RecordTx.AppendAudit.
	AuditRepository interface {
		ListAudit(ctx context.Context) ([]model.AuditEntry, error)
	}
)
