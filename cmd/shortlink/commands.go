package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/collection"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/creation"
	"github.com/serroba/shortlink-client/internal/health"
	"github.com/serroba/shortlink-client/internal/identity"
	"github.com/serroba/shortlink-client/internal/links"
	"github.com/serroba/shortlink-client/internal/linkservice"
	"github.com/serroba/shortlink-client/internal/qr"
	"github.com/serroba/shortlink-client/internal/render"
	"golang.org/x/sync/errgroup"
)

// errReported marks failures already shown to the user; the process still exits non-zero.
var errReported = errors.New("reported")

const maxParallelDeletes = 4

func (a *app) loadCollection(ctx context.Context) (*collection.Manager, collection.State, error) {
	userID, err := do.MustInvoke[*identity.Provider](a.injector).GetOrCreateUserID(ctx)
	if err != nil {
		return nil, collection.State{}, err
	}

	manager := do.MustInvoke[*collection.Manager](a.injector)

	return manager, manager.Sync(ctx, userID), nil
}

func (a *app) list(ctx context.Context) error {
	_, s, err := a.loadCollection(ctx)
	if err != nil {
		return err
	}

	if s.LoadState == collection.LoadStateError {
		return a.loadFailed(s)
	}

	return a.view.Collection(s, render.QRPanel{})
}

// loadFailed renders the full-page error of a failed load.
func (a *app) loadFailed(s collection.State) error {
	if err := a.view.Collection(s, render.QRPanel{}); err != nil {
		return err
	}

	return errReported
}

func (a *app) create(ctx context.Context, longURL, code, timeout string) error {
	ctrl, err := container.NewCreationController(ctx, a.injector)
	if err != nil {
		return err
	}

	fields := []struct {
		field creation.Field
		value string
	}{
		{creation.FieldLongURL, longURL},
		{creation.FieldCustomCode, code},
		{creation.FieldTimeout, timeout},
	}

	for _, f := range fields {
		if err := ctrl.UpdateField(f.field, f.value); err != nil {
			return err
		}
	}

	s, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}

	if err := a.view.Creation(s); err != nil {
		return err
	}

	if s.Phase == creation.PhaseFailed {
		return errReported
	}

	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	ids := make([]links.ID, 0, len(args))

	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", arg)
		}

		ids = append(ids, links.ID(id))
	}

	manager, s, err := a.loadCollection(ctx)
	if err != nil {
		return err
	}

	if s.LoadState == collection.LoadStateError {
		return a.loadFailed(s)
	}

	var (
		mu       sync.Mutex
		failures []*collection.RemoveError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDeletes)

	for _, id := range ids {
		g.Go(func() error {
			var removeErr *collection.RemoveError
			if err := manager.Remove(gctx, id, s.UserID); errors.As(err, &removeErr) {
				mu.Lock()
				failures = append(failures, removeErr)
				mu.Unlock()
			} else if err != nil {
				return err
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, f := range failures {
		if err := a.view.Alert(fmt.Sprintf("#%d: %s", f.ID, f.Message)); err != nil {
			return err
		}
	}

	if err := a.view.Collection(manager.State(), render.QRPanel{}); err != nil {
		return err
	}

	if len(failures) > 0 {
		return errReported
	}

	return nil
}

// qr toggles each code in turn on the run's reveal controller, so naming a code twice hides it.
// The selected link is rendered with its QR, or the whole list when nothing is left selected.
func (a *app) qr(ctx context.Context, codes []string, png string) error {
	manager, s, err := a.loadCollection(ctx)
	if err != nil {
		return err
	}

	if s.LoadState == collection.LoadStateError {
		return a.loadFailed(s)
	}

	for _, code := range codes {
		if _, ok := manager.Find(links.Code(code)); !ok {
			return fmt.Errorf("no link with code %q", code)
		}

		a.reveal.Toggle(links.Code(code))
	}

	selected, visible := a.reveal.Selected()
	if !visible {
		return a.view.Collection(s, render.QRPanel{})
	}

	link, _ := manager.Find(selected)

	var renderer qr.Renderer = qr.NewTerminalRenderer(false)
	if png != "" {
		renderer = qr.NewPNGRenderer(png, qr.DefaultSize)
	}

	art, err := renderer.Render(link.LongURL)
	if err != nil {
		return err
	}

	return a.view.Collection(singleLink(s, link), render.QRPanel{
		Reveal:   a.reveal,
		Art:      art,
		AssetRef: do.MustInvoke[linkservice.Service](a.injector).QRCodeAssetRef(link.ShortCode),
	})
}

func (a *app) whoami(ctx context.Context) error {
	userID, err := do.MustInvoke[*identity.Provider](a.injector).GetOrCreateUserID(ctx)
	if err != nil {
		return err
	}

	return a.view.Identity(userID)
}

func (a *app) status(ctx context.Context) error {
	resp, err := do.MustInvoke[*health.Handler](a.injector).Check(ctx, nil)
	if err != nil {
		return err
	}

	if err := a.view.Health(resp.Body); err != nil {
		return err
	}

	if resp.Body.Status != health.StatusOK {
		return errReported
	}

	return nil
}

func singleLink(s collection.State, link links.ShortLink) collection.State {
	s.Links = []links.ShortLink{link}

	return s
}
