package selection

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "storefront/pkg/domain"
	"storefront/pkg/requestcontext"
)

func TestCookieWrite_Attributes(t *testing.T) {
	storeID := id.StoreID(uuid.New())
	rec := httptest.NewRecorder()

	NewCookie("", false).Write(rec, storeID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, DefaultCookieName, c.Name)
	assert.Equal(t, storeID.String(), c.Value)
	assert.Equal(t, 31536000, c.MaxAge)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestCookieWrite_Secure(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookie("sel", true).Write(rec, id.StoreID(uuid.New()))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Secure")
}

func TestCookieRead(t *testing.T) {
	c := NewCookie("current_store", false)
	storeID := id.StoreID(uuid.New())

	tests := []struct {
		name   string
		cookie *http.Cookie
		wantOK bool
	}{
		{"absent", nil, false},
		{"valid", &http.Cookie{Name: "current_store", Value: storeID.String()}, true},
		{"malformed", &http.Cookie{Name: "current_store", Value: "not-a-uuid"}, false},
		{"nil uuid", &http.Cookie{Name: "current_store", Value: uuid.Nil.String()}, false},
		{"other cookie", &http.Cookie{Name: "theme", Value: storeID.String()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			got, ok := c.Read(req)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, storeID, got)
			}
		})
	}
}

func TestCookieClear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookie("current_store", false).Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSink_PersistsBeforeRedirect(t *testing.T) {
	storeID := id.StoreID(uuid.New())
	rec := httptest.NewRecorder()

	NewCookie("current_store", false).SinkFor(rec).PersistSelection(storeID)
	http.Redirect(rec, httptest.NewRequest(http.MethodPost, "/", nil), "/dashboard", http.StatusSeeOther)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "current_store="+storeID.String())
}

func TestMiddleware(t *testing.T) {
	c := NewCookie("current_store", false)
	storeID := id.StoreID(uuid.New())

	var (
		got id.StoreID
		ok  bool
	)
	h := Middleware(c)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, ok = requestcontext.SelectedStoreID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "current_store", Value: storeID.String()})
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, ok)
	assert.Equal(t, storeID, got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.False(t, ok)
}

func TestSignedCookie(t *testing.T) {
	c := NewCookie("current_store", false)
	c.SetSigningKey("selection-secret")
	storeID := id.StoreID(uuid.New())

	rec := httptest.NewRecorder()
	c.Write(rec, storeID)
	written := rec.Result().Cookies()[0]
	require.Contains(t, written.Value, storeID.String()+".")

	read := func(value string) (id.StoreID, bool) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "current_store", Value: value})
		return c.Read(req)
	}

	got, ok := read(written.Value)
	require.True(t, ok)
	assert.Equal(t, storeID, got)

	t.Run("unsigned value is ignored", func(t *testing.T) {
		_, ok := read(storeID.String())
		assert.False(t, ok)
	})
	t.Run("tag of another store is rejected", func(t *testing.T) {
		other := id.StoreID(uuid.New())
		_, tag, _ := strings.Cut(written.Value, ".")
		_, ok := read(other.String() + "." + tag)
		assert.False(t, ok)
	})
	t.Run("different key is rejected", func(t *testing.T) {
		rotated := NewCookie("current_store", false)
		rotated.SetSigningKey("rotated-secret")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "current_store", Value: written.Value})
		_, ok := rotated.Read(req)
		assert.False(t, ok)
	})
}
