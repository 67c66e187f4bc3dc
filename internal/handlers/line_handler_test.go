package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"haushaltsbuch/internal/aggregate"
	apperrors "haushaltsbuch/internal/errors"
	"haushaltsbuch/internal/models"
	"haushaltsbuch/internal/services"
)

// --- mock line service ---

type mockLineService struct {
	getUserLinesFn  func(userID string, sort aggregate.SortMode) ([]models.Line, error)
	getLineByIDFn   func(userID, lineID string) (*models.Line, error)
	createLineFn    func(userID string, in services.LineInput) (*models.Line, error)
	updateLineFn    func(userID, lineID string, patch services.LinePatch) (*models.Line, error)
	deleteLineFn    func(userID, lineID string) error
	addSubitemFn    func(userID, lineID string, in services.SubitemInput) (*models.Line, error)
	deleteSubitemFn func(userID, lineID, subitemID string) (*models.Line, error)
}

func (m *mockLineService) GetUserLines(_ context.Context, userID string, sort aggregate.SortMode) ([]models.Line, error) {
	if m.getUserLinesFn != nil {
		return m.getUserLinesFn(userID, sort)
	}
	return []models.Line{}, nil
}

func (m *mockLineService) GetLineByID(_ context.Context, userID, lineID string) (*models.Line, error) {
	if m.getLineByIDFn != nil {
		return m.getLineByIDFn(userID, lineID)
	}
	return nil, apperrors.ErrLineNotFound
}

func (m *mockLineService) CreateLine(_ context.Context, userID string, in services.LineInput) (*models.Line, error) {
	if m.createLineFn != nil {
		return m.createLineFn(userID, in)
	}
	return &models.Line{}, nil
}

func (m *mockLineService) UpdateLine(_ context.Context, userID, lineID string, patch services.LinePatch) (*models.Line, error) {
	if m.updateLineFn != nil {
		return m.updateLineFn(userID, lineID, patch)
	}
	return &models.Line{}, nil
}

func (m *mockLineService) DeleteLine(_ context.Context, userID, lineID string) error {
	if m.deleteLineFn != nil {
		return m.deleteLineFn(userID, lineID)
	}
	return nil
}

func (m *mockLineService) AddSubitem(_ context.Context, userID, lineID string, in services.SubitemInput) (*models.Line, error) {
	if m.addSubitemFn != nil {
		return m.addSubitemFn(userID, lineID, in)
	}
	return &models.Line{}, nil
}

func (m *mockLineService) DeleteSubitem(_ context.Context, userID, lineID, subitemID string) (*models.Line, error) {
	if m.deleteSubitemFn != nil {
		return m.deleteSubitemFn(userID, lineID, subitemID)
	}
	return &models.Line{}, nil
}

var _ services.LineServicer = (*mockLineService)(nil)

func setupLineRouter(handler *LineHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("u-1"))
	auth.GET("/api/lines", handler.ListLines)
	auth.POST("/api/lines", handler.CreateLine)
	auth.GET("/api/lines/:id", handler.GetLine)
	auth.PUT("/api/lines/:id", handler.UpdateLine)
	auth.DELETE("/api/lines/:id", handler.DeleteLine)
	auth.POST("/api/lines/:id/subitems", handler.AddSubitem)
	auth.DELETE("/api/lines/:id/subitems/:sub_id", handler.DeleteSubitem)
	return r
}

func TestLineHandler_ListLines(t *testing.T) {
	lines := []models.Line{
		{ID: "l1", Label: "alpha", Type: models.LineTypeExpense, Subitems: []models.Subitem{}},
		{ID: "l2", Label: "Zeta", Type: models.LineTypeExpense, Subitems: []models.Subitem{}},
		{ID: "l3", Label: "omega", Type: models.LineTypeIncome, Subitems: []models.Subitem{}},
	}

	t.Run("passes sort mode", func(t *testing.T) {
		var gotSort aggregate.SortMode
		var gotUser string
		svc := &mockLineService{
			getUserLinesFn: func(userID string, sort aggregate.SortMode) ([]models.Line, error) {
				gotUser, gotSort = userID, sort
				return lines, nil
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/lines?sort=label", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotSort != aggregate.SortLabel || gotUser != "u-1" {
			t.Errorf("unexpected call sort=%q user=%q", gotSort, gotUser)
		}
		if got := parseJSONArray(t, rec); len(got) != 3 {
			t.Errorf("expected 3 lines, got %d", len(got))
		}
	})

	t.Run("returns 422 on unknown sort", func(t *testing.T) {
		r := setupLineRouter(NewLineHandler(&mockLineService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/lines?sort=date", "")

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("paginates when page is given", func(t *testing.T) {
		svc := &mockLineService{
			getUserLinesFn: func(string, aggregate.SortMode) ([]models.Line, error) { return lines, nil },
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/lines?page=2&page_size=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 || data[0].(map[string]interface{})["id"] != "l3" {
			t.Errorf("unexpected page %v", data)
		}
		if result["total_items"] != float64(3) || result["total_pages"] != float64(2) {
			t.Errorf("unexpected page metadata %v", result)
		}
	})
}

func TestLineHandler_GetLine(t *testing.T) {
	t.Run("returns the line", func(t *testing.T) {
		svc := &mockLineService{
			getLineByIDFn: func(userID, lineID string) (*models.Line, error) {
				return &models.Line{ID: lineID, UserID: userID, Subitems: []models.Subitem{}}, nil
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/lines/l1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := parseJSON(t, rec); got["id"] != "l1" || got["user_id"] != "u-1" {
			t.Errorf("unexpected line %v", got)
		}
	})

	t.Run("returns 404 for unknown line", func(t *testing.T) {
		r := setupLineRouter(NewLineHandler(&mockLineService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/api/lines/l9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestLineHandler_CreateLine(t *testing.T) {
	t.Run("returns 201 and maps the payload", func(t *testing.T) {
		var got services.LineInput
		svc := &mockLineService{
			createLineFn: func(userID string, in services.LineInput) (*models.Line, error) {
				got = in
				return &models.Line{ID: "l1", Label: in.Label, Type: models.LineType(in.Type), UserID: userID}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupLineRouter(NewLineHandler(svc, audit))

		rec := doRequest(r, "POST", "/api/lines",
			`{"label":"Rent","type":"expense","category":null,"base_amount":"1000,5","subitems":[{"label":"a","amount":"12"}],"is_variable":"yes"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Category != "" {
			t.Errorf("null category should arrive blank, got %q", got.Category)
		}
		if got.BaseAmount.Valid || got.BaseAmount.Value != 0 {
			t.Errorf("unparsable amount should be invalid zero, got %+v", got.BaseAmount)
		}
		if len(got.Subitems) != 1 || got.Subitems[0].Amount.Value != 12 {
			t.Errorf("unexpected subitems %+v", got.Subitems)
		}
		if got.IsVariable.Value != nil {
			t.Error("non-bool is_variable should arrive unset")
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_LINE" {
			t.Errorf("expected CREATE_LINE audit entry, got %+v", audit.entries)
		}
	})

	for name, body := range map[string]string{
		"missing label": `{"type":"expense"}`,
		"blank label":   `{"label":"   ","type":"expense"}`,
		"invalid type":  `{"label":"Rent","type":"transfer"}`,
		"missing type":  `{"label":"Rent"}`,
	} {
		t.Run("returns 422 on "+name, func(t *testing.T) {
			called := false
			svc := &mockLineService{
				createLineFn: func(string, services.LineInput) (*models.Line, error) {
					called = true
					return &models.Line{}, nil
				},
			}
			r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "POST", "/api/lines", body)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
			if called {
				t.Error("service must not be called on invalid input")
			}
		})
	}
}

func TestLineHandler_UpdateLine(t *testing.T) {
	t.Run("maps present fields", func(t *testing.T) {
		var got services.LinePatch
		svc := &mockLineService{
			updateLineFn: func(_, lineID string, patch services.LinePatch) (*models.Line, error) {
				got = patch
				return &models.Line{ID: lineID}, nil
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/api/lines/l1", `{"label":"New","base_amount":null,"subitems":[{"amount":5}]}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Label.Present || got.Label.Value != "New" {
			t.Errorf("unexpected label %+v", got.Label)
		}
		if got.Type.Present || got.Category.Present || got.IsVariable.Present {
			t.Error("absent fields must not be marked present")
		}
		if !got.BaseAmount.Present || !got.BaseAmount.Valid || got.BaseAmount.Value != 0 {
			t.Errorf("null amount should be a present zero, got %+v", got.BaseAmount)
		}
		if got.Subitems == nil || len(*got.Subitems) != 1 {
			t.Errorf("expected replacement subitems, got %v", got.Subitems)
		}
	})

	t.Run("ignores non-list subitems", func(t *testing.T) {
		for _, body := range []string{`{"subitems":null}`, `{"subitems":"x"}`, `{}`} {
			var got services.LinePatch
			svc := &mockLineService{
				updateLineFn: func(_, _ string, patch services.LinePatch) (*models.Line, error) {
					got = patch
					return &models.Line{}, nil
				},
			}
			r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

			rec := doRequest(r, "PUT", "/api/lines/l1", body)

			if rec.Code != http.StatusOK {
				t.Fatalf("%s: expected 200, got %d", body, rec.Code)
			}
			if got.Subitems != nil {
				t.Errorf("%s: subitems must be left alone", body)
			}
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockLineService{
			updateLineFn: func(string, string, services.LinePatch) (*models.Line, error) {
				return nil, apperrors.ErrLineNotFound
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/api/lines/missing", `{"label":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "LINE_NOT_FOUND")
	})
}

func TestLineHandler_DeleteLine(t *testing.T) {
	t.Run("returns ok", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupLineRouter(NewLineHandler(&mockLineService{}, audit))

		rec := doRequest(r, "DELETE", "/api/lines/l1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if parseJSON(t, rec)["ok"] != true {
			t.Error("expected ok true")
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != "l1" {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockLineService{
			deleteLineFn: func(string, string) error { return apperrors.ErrLineNotFound },
		}
		audit := &mockAuditService{}
		r := setupLineRouter(NewLineHandler(svc, audit))

		rec := doRequest(r, "DELETE", "/api/lines/missing", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if len(audit.entries) != 0 {
			t.Error("failed deletes must not be audited")
		}
	})
}

func TestLineHandler_Subitems(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		var got services.SubitemInput
		svc := &mockLineService{
			addSubitemFn: func(_, lineID string, in services.SubitemInput) (*models.Line, error) {
				got = in
				return &models.Line{ID: lineID, Subitems: []models.Subitem{{ID: "s1", Amount: in.Amount.Value}}}, nil
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/api/lines/l1/subitems", `{"label":"Kalt","amount":"800"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Label.Value != "Kalt" || got.Amount.Value != 800 {
			t.Errorf("unexpected input %+v", got)
		}
	})

	t.Run("delete unknown subitem", func(t *testing.T) {
		var gotSub string
		svc := &mockLineService{
			deleteSubitemFn: func(_, _, subitemID string) (*models.Line, error) {
				gotSub = subitemID
				return nil, apperrors.ErrSubitemNotFound
			},
		}
		r := setupLineRouter(NewLineHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/api/lines/l1/subitems/s9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		if gotSub != "s9" {
			t.Errorf("expected subitem s9, got %q", gotSub)
		}
		assertErrorCode(t, parseJSON(t, rec), "SUBITEM_NOT_FOUND")
	})
}
