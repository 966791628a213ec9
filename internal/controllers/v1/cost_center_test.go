package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/eldolucas/orcy-backend/internal/controllers/v1"
	"github.com/eldolucas/orcy-backend/internal/models"
	"github.com/eldolucas/orcy-backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCostCenter(t *testing.T, c v1.CostCenterEditable, expectedStatus ...int) v1.CostCenterResponse {
	if c.Code == "" {
		c.Code = uuid.NewString()
	}

	if c.Name == "" {
		c.Name = "Testing cost center"
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.CostCenterEditable{c}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/cost-centers", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.CostCenterCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.CostCenterResponse{}
}

// TestCostCentersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestCostCentersDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestCostCenter(t, v1.CostCenterEditable{}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/cost-centers", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.CostCenterListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestCostCentersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestCostCentersOptions() {
	tests := []struct {
		name   string
		id     string // path at the cost centers endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Cost Center with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Cost Center exists", createTestCostCenter(suite.T(), v1.CostCenterEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/cost-centers", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestCostCentersGetSingle verifies that requests for the resource endpoints
// are handled correctly.
func (suite *TestSuiteStandard) TestCostCentersGetSingle() {
	c := createTestCostCenter(suite.T(), v1.CostCenterEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Cost Center", c.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Cost Center with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (negative number)", "-56", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (uint64)", "9223372036854775807", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "definitely-not-a-uuid", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/cost-centers/%s", tt.id), "")

			var response v1.CostCenterResponse
			test.DecodeResponse(t, &recorder, &response)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestCostCentersCreateInvalidBody() {
	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/cost-centers", `{ Invalid request": Body }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CostCenterCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), "the body of your request contains invalid or un-parseable data. Please check and try again", *response.Error)
	assert.Nil(suite.T(), response.Data)
}

// TestCostCentersCreateTree verifies that the level and the path are derived
// from the parent chain on creation.
func (suite *TestSuiteStandard) TestCostCentersCreateTree() {
	root := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "DIR", Name: "Diretoria"})
	assert.Equal(suite.T(), 0, root.Data.Level)
	assert.Equal(suite.T(), "DIR", root.Data.Path)

	child := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "FIN", Name: "Financeiro", ParentID: &root.Data.ID})
	assert.Equal(suite.T(), 1, child.Data.Level)
	assert.Equal(suite.T(), "DIR/FIN", child.Data.Path)

	grandchild := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "CONT", Name: "Contabilidade", ParentID: &child.Data.ID})
	assert.Equal(suite.T(), 2, grandchild.Data.Level)
	assert.Equal(suite.T(), "DIR/FIN/CONT", grandchild.Data.Path)
}

// TestCostCentersCreateDuplicateCode verifies that codes need to be unique
// below the same parent, but can repeat in other places of the tree.
func (suite *TestSuiteStandard) TestCostCentersCreateDuplicateCode() {
	root := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "DIR"})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "ADM", ParentID: &root.Data.ID})

	r := test.Request(suite.T(), http.MethodPost, "http://example.com/v1/cost-centers", []v1.CostCenterEditable{{Code: "ADM", Name: "Duplicate", ParentID: &root.Data.ID}})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CostCenterCreateResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrCostCenterCodeNotUnique.Error(), *response.Data[0].Error)

	// The same code below another parent is fine
	other := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "OPS"})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "ADM", ParentID: &other.Data.ID})
}

func (suite *TestSuiteStandard) TestCostCentersGetFiltered() {
	root := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "DIR", Name: "Diretoria"})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "FIN-01", Name: "Financeiro", Note: "Inclui tesouraria", ParentID: &root.Data.ID})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "FIN-02", Name: "Contabilidade", ParentID: &root.Data.ID})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "TI-01", Name: "Tecnologia", ParentID: &root.Data.ID, Archived: true})

	tests := []struct {
		name  string // Name of the test
		query string // Query string
		len   int    // Expected number of results
	}{
		{"Code glob", "code=FIN-*", 2},
		{"Code exact", "code=TI-01&archived=true", 1},
		{"Name", "name=Financeiro", 1},
		{"Note", "note=Inclui tesouraria", 1},
		{"Parent", fmt.Sprintf("parent=%s", root.Data.ID), 3},
		{"Level", "level=1", 3},
		{"Archived", "archived=true", 1},
		{"Search", "search=tesouraria", 1},
		{"Limit", "limit=2", 2},
		{"Offset", "offset=3&archived=false", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/cost-centers?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.CostCenterListResponse
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Wrong number of cost centers for query %s", tt.query)
		})
	}
}

// TestCostCentersGetTree verifies that the tree endpoint nests children below
// their parents and hides archived cost centers by default.
func (suite *TestSuiteStandard) TestCostCentersGetTree() {
	root := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "DIR"})
	child := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "FIN", ParentID: &root.Data.ID})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "CONT", ParentID: &child.Data.ID})
	createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "OLD", ParentID: &root.Data.ID, Archived: true})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/cost-centers/tree", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.CostCenterTreeResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	require.Len(suite.T(), response.Data[0].Children, 1)
	assert.Equal(suite.T(), "FIN", response.Data[0].Children[0].Code)
	require.Len(suite.T(), response.Data[0].Children[0].Children, 1)
	assert.Equal(suite.T(), "CONT", response.Data[0].Children[0].Children[0].Code)

	// With archived cost centers included, the root has two children
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/cost-centers/tree?archived=true", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	test.DecodeResponse(suite.T(), &r, &response)
	require.Len(suite.T(), response.Data, 1)
	assert.Len(suite.T(), response.Data[0].Children, 2)
}

// TestCostCentersUpdate verifies that updating cost centers works, including
// the path rewrite of the subtree on reparenting.
func (suite *TestSuiteStandard) TestCostCentersUpdate() {
	a := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "A"})
	b := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "B"})
	c := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "C", ParentID: &b.Data.ID})

	recorder := test.Request(suite.T(), http.MethodPatch, b.Data.Links.Self, map[string]any{
		"parentId": a.Data.ID,
	})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated v1.CostCenterResponse
	test.DecodeResponse(suite.T(), &recorder, &updated)
	assert.Equal(suite.T(), "A/B", updated.Data.Path)
	assert.Equal(suite.T(), 1, updated.Data.Level)

	// The child path is rewritten as well
	recorder = test.Request(suite.T(), http.MethodGet, c.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var child v1.CostCenterResponse
	test.DecodeResponse(suite.T(), &recorder, &child)
	assert.Equal(suite.T(), "A/B/C", child.Data.Path)
	assert.Equal(suite.T(), 2, child.Data.Level)
}

func (suite *TestSuiteStandard) TestCostCentersUpdateCycle() {
	a := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "A"})
	b := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "B", ParentID: &a.Data.ID})

	tests := []struct {
		name   string
		id     string
		parent uuid.UUID
	}{
		{"Own parent", a.Data.ID.String(), a.Data.ID},
		{"Descendant as parent", a.Data.ID.String(), b.Data.ID},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/cost-centers/%s", tt.id), map[string]any{
				"parentId": tt.parent,
			})
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.CostCenterResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, models.ErrCostCenterCycle.Error(), *response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestCostCentersUpdateInvalidBody() {
	c := createTestCostCenter(suite.T(), v1.CostCenterEditable{})

	r := test.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, `{ "name": 2" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

// TestCostCentersDelete verifies that cost centers with children or with
// recorded spending can not be deleted.
func (suite *TestSuiteStandard) TestCostCentersDelete() {
	root := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "DIR"})
	child := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "FIN", ParentID: &root.Data.ID})
	spender := createTestCostCenter(suite.T(), v1.CostCenterEditable{Code: "OPS", Spent: decimal.NewFromInt(1000)})

	r := test.Request(suite.T(), http.MethodDelete, root.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	var response v1.CostCenterResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrCostCenterHasChildren.Error(), *response.Error)

	r = test.Request(suite.T(), http.MethodDelete, spender.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)

	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), models.ErrCostCenterHasSpending.Error(), *response.Error)

	// Leaves without spending can be deleted
	r = test.Request(suite.T(), http.MethodDelete, child.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = test.Request(suite.T(), http.MethodGet, child.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

// TestCostCentersUtilization verifies the computed utilization fields.
func (suite *TestSuiteStandard) TestCostCentersUtilization() {
	c := createTestCostCenter(suite.T(), v1.CostCenterEditable{
		Budget: decimal.NewFromInt(500000),
		Spent:  decimal.NewFromInt(460000),
	})

	require.NotNil(suite.T(), c.Data.Utilization)
	assert.InDelta(suite.T(), 0.92, *c.Data.Utilization, 0.0001)
	assert.Equal(suite.T(), "critical", c.Data.UtilizationStatus)

	// Without a budget, the utilization is undefined
	noBudget := createTestCostCenter(suite.T(), v1.CostCenterEditable{Spent: decimal.NewFromInt(1000)})
	assert.Nil(suite.T(), noBudget.Data.Utilization)
	assert.Equal(suite.T(), "", noBudget.Data.UtilizationStatus)
}
