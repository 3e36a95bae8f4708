package e2e

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fhuszti/talkcart-medias-go/internal/cache"
	"github.com/fhuszti/talkcart-medias-go/internal/handler/api"
	"github.com/fhuszti/talkcart-medias-go/internal/metrics"
	cMiddleware "github.com/fhuszti/talkcart-medias-go/internal/middleware"
	"github.com/fhuszti/talkcart-medias-go/internal/model"
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
	"github.com/fhuszti/talkcart-medias-go/internal/renderer"
	mongoRepo "github.com/fhuszti/talkcart-medias-go/internal/repository/mongo"
	"github.com/fhuszti/talkcart-medias-go/internal/resolver"
	"github.com/fhuszti/talkcart-medias-go/internal/storage"
	"github.com/fhuszti/talkcart-medias-go/internal/task"
	mediaSvc "github.com/fhuszti/talkcart-medias-go/internal/usecase/media"
	"github.com/fhuszti/talkcart-medias-go/test/testutil"
)

type testServer struct {
	*httptest.Server
	Root string
	DB   *testutil.TestDB
	Reg  *prometheus.Registry
}

// startServer wires the API the way cmd/api does, on the local disk backend with
// an inline delete dispatcher.
func startServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	testDB, err := testutil.SetupTestDB()
	if err != nil {
		t.Fatalf("setup DB: %v", err)
	}
	t.Cleanup(func() { _ = testDB.Cleanup() })

	root := t.TempDir()
	reg := prometheus.NewRegistry()
	recorder, err := metrics.New(reg)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}

	disk, err := storage.NewLocalDisk(ctx, storage.LocalDiskConfig{Root: root, Namespace: "talkcart", PathPrefix: "/uploads"})
	if err != nil {
		t.Fatalf("NewLocalDisk: %v", err)
	}
	backend := storage.NewObservedBackend(disk, recorder)

	res, err := resolver.New(resolver.Config{Root: root})
	if err != nil {
		t.Fatalf("resolver.New: %v", err)
	}

	r := chi.NewRouter()
	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	norm := normaliser.New(normaliser.Config{BaseOrigin: srv.URL, PathPrefix: "/uploads", Namespace: "talkcart"})
	dispatcher := task.NewInlineDispatcher(mediaSvc.NewMediaDeleter(backend))

	r.Post("/medias/upload", api.UploadMediaHandler(
		mediaSvc.NewUploadIngestor(backend, norm, mediaSvc.DefaultUploadLimits()),
		api.UploadConfig{MaxBytes: 1 << 20, InitialBackoff: time.Millisecond},
	))
	r.Post("/medias/normalise", api.NormaliseReferencesHandler(mediaSvc.NewReferenceNormaliser(norm, []string{"file_1758000000000"})))
	r.Delete("/medias", api.DeleteMediaHandler(mediaSvc.NewMediaDeleteScheduler(dispatcher)))

	repo := mongoRepo.NewDocumentRepository(testDB.Database.Database)
	r.With(
		cMiddleware.WithCollection(model.DocumentCollections),
		cMiddleware.WithDocumentID(),
	).Get("/documents/{collection}/{id}/media", api.GetDocumentMediaHandler(
		renderer.NewHTTPRenderer(cache.NewNoop(), time.Minute),
		mediaSvc.NewDocumentMediaLister(repo, res, norm),
	))

	r.Get("/uploads/*", api.FallbackGatewayHandler(res, "/uploads", recorder))
	r.Get("/image-proxy", api.ImageProxyHandler(res, api.ProxyConfig{PathPrefix: "/uploads", MinBytes: 128}))

	return &testServer{Server: srv, Root: root, DB: testDB, Reg: reg}
}
