package render

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"labelkit/internal/core/apperror"
	"labelkit/internal/core/types"
	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/pkg/logger"
)

var tracer = otel.Tracer("labelkit/render")

// Summary describes a finished render.
type Summary struct {
	Records int
	Pages   int
}

// Orchestrator walks records in store order and issues placement
// instructions for each label cell.
type Orchestrator struct {
	style CellStyle
	log   *logger.Logger
}

// NewOrchestrator creates an orchestrator. A nil log uses logger.Default().
func NewOrchestrator(style CellStyle, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Default()
	}
	return &Orchestrator{
		style: style,
		log:   log.WithComponent("render"),
	}
}

// Render lays out records on the geometry and draws each cell: the serial
// centered near the top, the identifier's barcode below it. The writer is
// finalized only after the last record; on any error, or when ctx is done,
// Render returns without finalizing.
func (o *Orchestrator) Render(
	ctx context.Context,
	records []labels.Record,
	geometry layout.Geometry,
	writer DocumentWriter,
	barcodes BarcodeRenderer,
) (summary Summary, err error) {
	ctx, span := tracer.Start(ctx, "render.Render")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if len(records) == 0 {
		return Summary{}, apperror.NewEmptyRecordSet()
	}

	placements, err := layout.Layout(len(records), geometry)
	if err != nil {
		return Summary{}, err
	}
	if err := o.style.Fits(geometry); err != nil {
		return Summary{}, err
	}

	cellW := geometry.CellWidth
	imageW := cellW.Sub(o.style.ImageInset.Mul(types.LengthFromInt(2)))
	pages := 1

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}

		p := placements[i]
		if p.NewPage {
			if err := writer.NewPage(); err != nil {
				return Summary{}, fmt.Errorf("new page %d: %w", p.PageIndex+1, err)
			}
			pages++
		}

		textX := p.X.Add(cellW.Div(types.LengthFromInt(2)))
		textY := p.Y.Add(o.style.TextBaseline)
		if err := writer.PlaceText(rec.Serial, types.Float(textX), types.Float(textY), AlignCenter); err != nil {
			return Summary{}, fmt.Errorf("place serial %s: %w", rec.Serial, err)
		}

		img, err := barcodes.Rasterize(rec.Identifier)
		if err != nil {
			return Summary{}, fmt.Errorf("rasterize %s: %w", rec.Identifier, err)
		}
		if err := writer.PlaceImage(img,
			types.Float(p.X.Add(o.style.ImageInset)),
			types.Float(p.Y.Add(o.style.ImageTop)),
			types.Float(imageW),
			types.Float(o.style.ImageHeight),
		); err != nil {
			return Summary{}, fmt.Errorf("place barcode %s: %w", rec.Identifier, err)
		}
	}

	if err := writer.Finalize(); err != nil {
		return Summary{}, fmt.Errorf("finalize document: %w", err)
	}

	summary = Summary{Records: len(records), Pages: pages}
	span.SetAttributes(
		attribute.Int("render.records", summary.Records),
		attribute.Int("render.pages", summary.Pages),
	)
	o.log.WithContext(ctx).Infow("labels rendered",
		"records", summary.Records,
		"pages", summary.Pages,
	)
	return summary, nil
}
