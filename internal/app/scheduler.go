package app

import (
	"sort"
	"time"

	"github.com/nodebridgetech/misterticket-sub000/internal/domain"
)

// batchBefore is the sector ordering: position ascending, then creation time,
// then id. The creation-time fallback makes equal positions deterministic.
func batchBefore(a, b domain.TicketBatch) bool {
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// IsPurchasable decides whether a batch can sell units at now. siblings are
// the other batches of the same event; only those sharing the batch's
// non-null sector participate in the auto-advance rule.
//
// A batch with a null sector is purchasable whenever its window is open. A
// batch in a sector is additionally gated on every earlier sibling in that
// sector being time-expired or fully sold; windowless sector batches are
// gated by that rule alone.
func IsPurchasable(batch domain.TicketBatch, siblings []domain.TicketBatch, now time.Time) bool {
	if !batch.WindowOpen(now) {
		return false
	}
	if batch.Sector == nil {
		return true
	}

	sector := make([]domain.TicketBatch, 0, len(siblings))
	for _, s := range siblings {
		if s.ID == batch.ID {
			continue
		}
		if s.Sector != nil && *s.Sector == *batch.Sector {
			sector = append(sector, s)
		}
	}
	sort.Slice(sector, func(i, j int) bool { return batchBefore(sector[i], sector[j]) })

	for _, s := range sector {
		if !batchBefore(s, batch) {
			break
		}
		if !s.SoldOut() && !s.Expired(now) {
			return false
		}
	}
	return true
}
