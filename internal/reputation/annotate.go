package reputation

import (
	"context"
	"log/slog"

	"github.com/hejijunhao/falcomd/internal/model"
)

// FieldName is the key Annotate adds to each record.
const FieldName = "reputation"

// Annotate looks up the record's indicator and appends the verdict as the
// last field. Records without an indicator are marked Unknown without a
// lookup.
func (s *Service) Annotate(ctx context.Context, mode Mode, rec *model.Record) Label {
	indicator, _ := rec.Field(mode.Field())
	label := Unknown
	if indicator != "" {
		label = s.Reputation(ctx, mode, indicator)
	} else {
		slog.Warn("record has no indicator", "field", mode.Field())
	}
	rec.Set(FieldName, string(label))
	return label
}
