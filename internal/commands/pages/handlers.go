package pagescmd

import (
	"context"
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/lumenworks/sectioncms/internal/commands"
	"github.com/lumenworks/sectioncms/internal/logging"
	"github.com/lumenworks/sectioncms/internal/pages"
	"github.com/lumenworks/sectioncms/internal/permissions"
	"github.com/lumenworks/sectioncms/internal/sections"
	"github.com/lumenworks/sectioncms/pkg/interfaces"
)

var errSectionIDRequired = ozzo.Errors{
	"sectionId": ozzo.NewError("sectioncms.sections.delete.id_required", "sectionId is required"),
}

// BulkPagesHandler runs bulk page actions. Delete requires the pages delete
// permission; enable and disable require update.
type BulkPagesHandler struct {
	inner *commands.Handler[BulkPagesCommand]
}

func NewBulkPagesHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BulkPagesCommand]) *BulkPagesHandler {
	exec := func(ctx context.Context, msg BulkPagesCommand) error {
		required := permissions.Pages.Update
		if msg.Action == pages.BulkDelete {
			required = permissions.Pages.Delete
		}
		if err := permissions.Require(ctx, required); err != nil {
			return err
		}
		result, err := service.Bulk(ctx, pages.BulkRequest{Action: msg.Action, IDs: msg.IDs})
		if err != nil {
			return err
		}
		for i := range result.Errors {
			_, result.Errors[i].Code = commands.Classify(result.Errors[i].Err)
		}
		if msg.Result != nil {
			*msg.Result = *result
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[BulkPagesCommand]{
		commands.WithLogger[BulkPagesCommand](logger),
		commands.WithOperation[BulkPagesCommand]("pages.bulk"),
		commands.WithMessageFields(func(msg BulkPagesCommand) map[string]any {
			return map[string]any{"action": msg.Action, "count": len(msg.IDs)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BulkPagesCommand](ensureLogger(logger))),
	}
	return &BulkPagesHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *BulkPagesHandler) Execute(ctx context.Context, msg BulkPagesCommand) error {
	return h.inner.Execute(ctx, msg)
}

type DuplicatePageHandler struct {
	inner *commands.Handler[DuplicatePageCommand]
}

func NewDuplicatePageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DuplicatePageCommand]) *DuplicatePageHandler {
	exec := func(ctx context.Context, msg DuplicatePageCommand) error {
		if err := permissions.Require(ctx, permissions.Pages.Create); err != nil {
			return err
		}
		page, err := service.Duplicate(ctx, pages.DuplicatePageRequest{ID: msg.PageID, NewKey: msg.NewKey, NewSlug: msg.NewSlug})
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = *page
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[DuplicatePageCommand]{
		commands.WithLogger[DuplicatePageCommand](logger),
		commands.WithOperation[DuplicatePageCommand]("pages.duplicate"),
		commands.WithMessageFields(func(msg DuplicatePageCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "new_key": msg.NewKey}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DuplicatePageCommand](ensureLogger(logger))),
	}
	return &DuplicatePageHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *DuplicatePageHandler) Execute(ctx context.Context, msg DuplicatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

type DeleteSectionHandler struct {
	inner *commands.Handler[DeleteSectionCommand]
}

func NewDeleteSectionHandler(service sections.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DeleteSectionCommand]) *DeleteSectionHandler {
	exec := func(ctx context.Context, msg DeleteSectionCommand) error {
		if err := permissions.Require(ctx, permissions.Sections.Delete); err != nil {
			return err
		}
		return service.Delete(ctx, msg.SectionID)
	}
	handlerOpts := []commands.HandlerOption[DeleteSectionCommand]{
		commands.WithLogger[DeleteSectionCommand](logger),
		commands.WithOperation[DeleteSectionCommand]("sections.delete"),
		commands.WithMessageFields(func(msg DeleteSectionCommand) map[string]any {
			return map[string]any{"section_id": msg.SectionID}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DeleteSectionCommand](ensureLogger(logger))),
	}
	return &DeleteSectionHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *DeleteSectionHandler) Execute(ctx context.Context, msg DeleteSectionCommand) error {
	return h.inner.Execute(ctx, msg)
}

type ReorderSectionsHandler struct {
	inner *commands.Handler[ReorderSectionsCommand]
}

func NewReorderSectionsHandler(service sections.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ReorderSectionsCommand]) *ReorderSectionsHandler {
	exec := func(ctx context.Context, msg ReorderSectionsCommand) error {
		if err := permissions.Require(ctx, permissions.Sections.Update); err != nil {
			return err
		}
		ordered, err := service.Reorder(ctx, sections.ReorderSectionsRequest{PageID: msg.PageID, Items: msg.Items})
		if err != nil {
			return err
		}
		if msg.Result != nil {
			*msg.Result = ordered
		}
		return nil
	}
	handlerOpts := []commands.HandlerOption[ReorderSectionsCommand]{
		commands.WithLogger[ReorderSectionsCommand](logger),
		commands.WithOperation[ReorderSectionsCommand]("sections.reorder"),
		commands.WithMessageFields(func(msg ReorderSectionsCommand) map[string]any {
			return map[string]any{"page_id": msg.PageID, "count": len(msg.Items)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ReorderSectionsCommand](ensureLogger(logger))),
	}
	return &ReorderSectionsHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func (h *ReorderSectionsHandler) Execute(ctx context.Context, msg ReorderSectionsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// IsDenied reports whether err was caused by a missing permission.
func IsDenied(err error) bool {
	return errors.Is(err, permissions.ErrPermissionDenied)
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
