// Package mocks holds hand-written test doubles shared across packages.
//
// Each mock has Fn fields to override behavior, plain fields for canned
// results, and records its calls:
//
//	st := &mocks.MockLibraryStore{
//	    SaveFn: func(ctx context.Context, lib *domain.Library) error {
//	        return store.Unavailable("library", "save", errors.New("disk full"))
//	    },
//	}
//	svc := service.NewLibraryService(st, srs.NewDefaultService(), nil, logger)
//
// Mocks live next to each other here instead of inside test files so that
// service, review and shell tests use the same doubles.
package mocks
