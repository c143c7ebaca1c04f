package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openlance/openlance/db"
	"github.com/openlance/openlance/internal/auth"
	"github.com/openlance/openlance/internal/engagement"
	"github.com/openlance/openlance/internal/handlers"
	"github.com/openlance/openlance/internal/models"
	"github.com/openlance/openlance/internal/router"
	"github.com/openlance/openlance/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "handlers-test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

// newTestApp wires the full router against an in-memory database so the
// tests exercise the same guard chain production requests go through.
func newTestApp(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	resources := store.New(gdb)
	engagements := engagement.NewService(gdb)
	h := handlers.New(gdb, resources, engagements)

	return gdb, router.NewRouter(h, resources)
}

type fixture struct {
	owner    models.User
	bidder   models.User
	stranger models.User
	project  models.Project
	bid      models.Bid
}

func seed(t *testing.T, gdb *gorm.DB, bidderStatus, customerStatus models.BidStatus, selected bool) fixture {
	t.Helper()

	f := fixture{
		owner:    models.User{Name: "Olive Owner", Username: "olive", Email: "olive@example.com", PasswordHash: "x"},
		bidder:   models.User{Name: "Bert Bidder", Username: "bert", Email: "bert@example.com", PasswordHash: "x"},
		stranger: models.User{Name: "Sam Stranger", Username: "sam", Email: "sam@example.com", PasswordHash: "x"},
	}

	require.NoError(t, gdb.Create(&f.owner).Error)
	require.NoError(t, gdb.Create(&f.bidder).Error)
	require.NoError(t, gdb.Create(&f.stranger).Error)

	f.project = models.Project{
		Title:       "Garden landscaping",
		Description: "Full backyard redesign",
		Status:      models.ProjectPending,
		OwnerID:     f.owner.ID,
	}
	require.NoError(t, gdb.Create(&f.project).Error)

	f.bid = models.Bid{
		BidderID:       f.bidder.ID,
		ProjectID:      f.project.ID,
		EstimatedTime:  14,
		Quote:          2500,
		BidderStatus:   bidderStatus,
		CustomerStatus: customerStatus,
	}
	require.NoError(t, gdb.Create(&f.bid).Error)

	if selected {
		updates := map[string]interface{}{
			"selected_bid_id": f.bid.ID,
			"status":          models.ProjectInProgress,
		}
		require.NoError(t, gdb.Model(&models.Project{}).Where("id = ?", f.project.ID).Updates(updates).Error)
	}

	return f
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, authorization string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
