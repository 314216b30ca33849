package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/smart-calendar/internal/civil"
	"github.com/example/smart-calendar/internal/suggest"
)

// Snapshot loads every signal record the owner has. Records with a missing
// date come back with a zero date; the suggestion engine skips them.
func (s *Storage) Snapshot(ctx context.Context, ownerID string) (suggest.Snapshot, error) {
	var snap suggest.Snapshot

	err := s.queryEach(ctx, `
		SELECT id, property_id, property_name, tenant_name, end_date
		FROM leases WHERE owner_id = ? ORDER BY id`, ownerID,
		func(row rowScanner) error {
			var l suggest.Lease
			if err := row.Scan(&l.ID, &l.PropertyID, &l.PropertyName, &l.TenantName, &l.EndDate); err != nil {
				return err
			}
			snap.Leases = append(snap.Leases, l)
			return nil
		})
	if err != nil {
		return suggest.Snapshot{}, err
	}

	err = s.queryEach(ctx, `
		SELECT id, property_id, item_name, provider, expires_on
		FROM warranties WHERE owner_id = ? ORDER BY id`, ownerID,
		func(row rowScanner) error {
			var w suggest.Warranty
			if err := row.Scan(&w.ID, &w.PropertyID, &w.ItemName, &w.Provider, &w.ExpiresOn); err != nil {
				return err
			}
			snap.Warranties = append(snap.Warranties, w)
			return nil
		})
	if err != nil {
		return suggest.Snapshot{}, err
	}

	err = s.queryEach(ctx, `
		SELECT id, property_id, kind, carrier, policy_number, renewal_date
		FROM insurance_policies WHERE owner_id = ? ORDER BY id`, ownerID,
		func(row rowScanner) error {
			var p suggest.InsurancePolicy
			if err := row.Scan(&p.ID, &p.PropertyID, &p.Kind, &p.Carrier, &p.PolicyNumber, &p.RenewalDate); err != nil {
				return err
			}
			snap.Policies = append(snap.Policies, p)
			return nil
		})
	if err != nil {
		return suggest.Snapshot{}, err
	}

	err = s.queryEach(ctx, `
		SELECT id, property_id, title, kind, expires_on
		FROM documents WHERE owner_id = ? ORDER BY id`, ownerID,
		func(row rowScanner) error {
			var d suggest.Document
			if err := row.Scan(&d.ID, &d.PropertyID, &d.Title, &d.Kind, &d.ExpiresOn); err != nil {
				return err
			}
			snap.Documents = append(snap.Documents, d)
			return nil
		})
	if err != nil {
		return suggest.Snapshot{}, err
	}

	return snap, nil
}

// SaveSnapshot upserts the owner's signal records. Records absent from snap
// are left untouched.
func (s *Storage) SaveSnapshot(ctx context.Context, ownerID string, snap suggest.Snapshot) error {
	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, l := range snap.Leases {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO leases (id, owner_id, property_id, property_name, tenant_name, end_date)
				VALUES (?, ?, ?, ?, ?, ?)`,
				l.ID, ownerID, l.PropertyID, l.PropertyName, l.TenantName, dateValue(l.EndDate)); err != nil {
				return mapError(err)
			}
		}
		for _, w := range snap.Warranties {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO warranties (id, owner_id, property_id, item_name, provider, expires_on)
				VALUES (?, ?, ?, ?, ?, ?)`,
				w.ID, ownerID, w.PropertyID, w.ItemName, w.Provider, dateValue(w.ExpiresOn)); err != nil {
				return mapError(err)
			}
		}
		for _, p := range snap.Policies {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO insurance_policies (id, owner_id, property_id, kind, carrier, policy_number, renewal_date)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				p.ID, ownerID, p.PropertyID, p.Kind, p.Carrier, p.PolicyNumber, dateValue(p.RenewalDate)); err != nil {
				return mapError(err)
			}
		}
		for _, d := range snap.Documents {
			if _, err := tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO documents (id, owner_id, property_id, title, kind, expires_on)
				VALUES (?, ?, ?, ?, ?, ?)`,
				d.ID, ownerID, d.PropertyID, d.Title, d.Kind, dateValue(d.ExpiresOn)); err != nil {
				return mapError(err)
			}
		}
		return nil
	})
}

func (s *Storage) queryEach(ctx context.Context, query, ownerID string, fn func(rowScanner) error) error {
	rows, err := s.pool.DB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return mapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return mapError(err)
		}
	}
	return mapError(rows.Err())
}

func dateValue(d civil.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
