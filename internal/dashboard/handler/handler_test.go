package handler

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lookalike/internal/charts"
	"lookalike/internal/dashboard"
	"lookalike/internal/dashboard/handler/mocks"
	"lookalike/internal/estimator"
	"lookalike/internal/geo"
	dErrors "lookalike/pkg/domain-errors"
	"lookalike/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.router = chi.NewRouter()
	New(s.service, logger, nil).Register(s.router)
}

func sampleDashboard() *dashboard.Dashboard {
	points := []estimator.Point{{PopulationSize: 1000, ProjectedCount: 75}, {PopulationSize: 3000, ProjectedCount: 225}}
	return &dashboard.Dashboard{
		Dataset:         "sim.csv",
		Digest:          "abc",
		Rows:            10000,
		ExpectedMatches: 1046,
		RenderedAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Summary:         dashboard.Panel[estimator.Summary]{Value: estimator.Summary{TotalCount: 10000, MatchCount: 750, MatchRate: 0.075}},
		Rate:            dashboard.Panel[estimator.Rate]{Value: estimator.Rate{Value: 0.075, Mode: estimator.RateFixed}},
		Projection:      dashboard.Panel[[]estimator.Point]{Value: points},
		Statistics: dashboard.Panel[[]estimator.FeatureStats]{Value: []estimator.FeatureStats{
			{Feature: "face_ratio", Count: 1, Mean: 1.3, Std: math.NaN(), Min: 1.3, Q25: 1.3, Median: 1.3, Q75: 1.3, Max: 1.3},
		}},
		ScatterChart:    dashboard.Panel[charts.ChartConfig]{Err: dErrors.New(dErrors.CodeSchemaMismatch, "dataset sim.csv is missing column(s): PC1, PC2")},
		ProjectionChart: dashboard.Panel[charts.ChartConfig]{Value: charts.ProjectionConfig(points)},
		Map:             dashboard.Panel[*geo.Overlay]{Err: dErrors.New(dErrors.CodeSchemaMismatch, "no latitude/longitude columns configured")},
	}
}

func (s *HandlerSuite) TestSummary() {
	s.Run("returns counts, rate and model expectation", func() {
		s.service.EXPECT().Summary(gomock.Any()).Return(&dashboard.SummaryResult{
			Dataset:         "sim.csv",
			Summary:         estimator.Summary{TotalCount: 10000, MatchCount: 750, MatchRate: 0.075},
			Rate:            estimator.Rate{Value: 0.075, Mode: estimator.RateFixed},
			ExpectedMatches: 1046,
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/summary"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[SummaryResponse](s.T(), rr)
		s.Equal(SummaryResponse{
			Dataset: "sim.csv", TotalCount: 10000, MatchCount: 750, MatchRate: 0.075,
			Rate: 0.075, RateMode: "fixed", ExpectedMatches: 1046,
		}, *resp)
	})

	s.Run("dataset unavailable maps to 503", func() {
		s.service.EXPECT().Summary(gomock.Any()).Return(nil,
			dErrors.New(dErrors.CodeDatasetUnavailable, "dataset file not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/summary"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusServiceUnavailable, "dataset_unavailable")
	})

	s.Run("empty dataset maps to 422", func() {
		s.service.EXPECT().Summary(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeEmptyDataset, "no observations"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/summary"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "empty_dataset")
	})

	s.Run("internal errors hide their description", func() {
		s.service.EXPECT().Summary(gomock.Any()).Return(nil, errors.New("boom"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/summary"))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.Equal(map[string]string{"error": "internal_error"}, testutil.UnmarshalErrorResponse(s.T(), rr))
	})
}

func (s *HandlerSuite) TestProjection() {
	s.Run("passes parsed query to the service", func() {
		rate := 0.075
		s.service.EXPECT().Projection(gomock.Any(), dashboard.ProjectionParams{
			Start: 1000, Stop: 5001, Step: 2000, Rate: &rate,
		}).Return(&dashboard.ProjectionResult{
			Rate:   estimator.Rate{Value: 0.075, Mode: estimator.RateFixed},
			Points: []estimator.Point{{PopulationSize: 1000, ProjectedCount: 75}, {PopulationSize: 3000, ProjectedCount: 225}, {PopulationSize: 5000, ProjectedCount: 375}},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet,
			"/api/projection?start=1000&stop=5001&step=2000&rate=0.075"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[ProjectionResponse](s.T(), rr)
		s.Equal(RateResponse{Value: 0.075, Mode: "fixed"}, resp.Rate)
		s.Equal([]PointResponse{{1000, 75}, {3000, 225}, {5000, 375}}, resp.Points)
	})

	s.Run("defaults when no query", func() {
		s.service.EXPECT().Projection(gomock.Any(), dashboard.ProjectionParams{}).
			Return(&dashboard.ProjectionResult{Points: []estimator.Point{}}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/projection"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("non-integer bound is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/projection?start=ten"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("non-positive step is a validation error", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/projection?step=-5"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("non-numeric rate is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/projection?rate=high"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *HandlerSuite) TestStatistics() {
	s.Run("collects repeated and comma separated features", func() {
		s.service.EXPECT().Statistics(gomock.Any(), []string{"a", "b", "c"}).Return([]estimator.FeatureStats{
			{Feature: "a", Count: 1, Mean: 2, Std: math.NaN(), Min: 2, Q25: 2, Median: 2, Q75: 2, Max: 2},
			{Feature: "b", Count: 4, Mean: 2.5, Std: 1.2909944487358056, Min: 1, Q25: 1.75, Median: 2.5, Q75: 3.25, Max: 4},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/statistics?feature=a,b&feature=c"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[StatisticsResponse](s.T(), rr)
		s.Require().Len(resp.Features, 2)
		s.Nil(resp.Features[0].Std, "undefined std is null")
		s.Require().NotNil(resp.Features[1].Std)
		s.InDelta(1.2909944487358056, *resp.Features[1].Std, 1e-12)
		s.Equal(1.75, resp.Features[1].Q25)
	})

	s.Run("unknown feature maps to 404", func() {
		s.service.EXPECT().Statistics(gomock.Any(), []string{"shoe_size"}).
			Return(nil, dErrors.New(dErrors.CodeMissingFeature, `feature "shoe_size" is not present in the dataset`))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/statistics?feature=shoe_size"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "missing_feature")
	})
	s.Run("unencodable values become an internal error, not an empty 200", func() {
		s.service.EXPECT().Statistics(gomock.Any(), gomock.Any()).Return([]estimator.FeatureStats{
			{Feature: "face_ratio", Count: 2, Mean: math.Inf(1), Std: math.NaN(), Min: 1, Max: math.Inf(1)},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/statistics"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
		testutil.AssertContentType(s.T(), rr, "application/json")
	})
}

func (s *HandlerSuite) TestScatterChart() {
	s.Run("match filter", func() {
		cfg := charts.ScatterConfig(nil, charts.FilterMatch)
		s.service.EXPECT().ScatterChart(gomock.Any(), charts.FilterMatch).Return(&cfg, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/charts/scatter?match=match"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[charts.ChartConfig](s.T(), rr)
		s.Equal(charts.TypeScatter, resp.ChartType)
		s.Len(resp.Series, 1)
	})

	s.Run("unknown filter", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/charts/scatter?match=some"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("missing projection columns map to 422", func() {
		s.service.EXPECT().ScatterChart(gomock.Any(), charts.FilterAll).
			Return(nil, dErrors.New(dErrors.CodeSchemaMismatch, "dataset sim.csv is missing column(s): PC1"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/charts/scatter"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "schema_mismatch")
	})
}

func (s *HandlerSuite) TestChartImages() {
	s.service.EXPECT().ScatterPNG(gomock.Any(), charts.FilterNoMatch).Return([]byte("\x89PNG"), nil)
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/charts/scatter.png?match=nomatch"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertContentType(s.T(), rr, "image/png")
	s.Empty(rr.Header().Get("Content-Disposition"), "images are inline")

	s.service.EXPECT().ProjectionPNG(gomock.Any(), dashboard.ProjectionParams{Step: 500}).Return([]byte("\x89PNG"), nil)
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/charts/projection.png?step=500"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal("\x89PNG", rr.Body.String())
}

func (s *HandlerSuite) TestDashboard() {
	s.Run("failed panels are reported next to rendered ones", func() {
		s.service.EXPECT().Render(gomock.Any(), dashboard.RenderParams{Scatter: charts.FilterAll}).Return(sampleDashboard(), nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/dashboard"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[DashboardResponse](s.T(), rr)

		s.Equal("sim.csv", resp.Dataset)
		s.Require().NotNil(resp.Summary)
		s.Equal(750, resp.Summary.MatchCount)
		s.Len(resp.Projection, 2)
		s.Nil(resp.Charts.Scatter)
		s.NotNil(resp.Charts.Projection)
		s.Equal("schema_mismatch", resp.Errors[dashboard.PanelScatterChart].Error)
		s.Contains(resp.Errors[dashboard.PanelScatterChart].ErrorDescription, "PC1, PC2")
		s.Equal("schema_mismatch", resp.Errors[dashboard.PanelMap].Error)
		s.NotContains(resp.Errors, dashboard.PanelSummary)
	})

	s.Run("fatal load errors fail the request", func() {
		s.service.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeInvalidRow, "dataset sim.csv line 3"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/dashboard"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invalid_row")
	})
}

func (s *HandlerSuite) TestPage() {
	s.Run("renders available panels and notes missing ones", func() {
		s.service.EXPECT().Render(gomock.Any(), dashboard.RenderParams{}).Return(sampleDashboard(), nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertContentType(s.T(), rr, "text/html; charset=utf-8")
		body := rr.Body.String()
		s.Contains(body, "Look-alike estimator")
		s.Contains(body, "7.50%")
		s.Contains(body, "1046")
		s.Contains(body, "/charts/projection.png")
		s.NotContains(body, "/charts/scatter.png")
		s.Contains(body, "missing column(s): PC1, PC2")
		s.Contains(body, "n/a", "undefined std")
		s.Contains(body, "/downloads/statistics.xlsx")
	})

	s.Run("unavailable dataset renders an error page", func() {
		s.service.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, dErrors.New(dErrors.CodeDatasetUnavailable, "dataset file not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/"))
		testutil.AssertStatus(s.T(), rr, http.StatusServiceUnavailable)
		s.True(strings.Contains(rr.Body.String(), "dataset_unavailable"))
	})
}

func (s *HandlerSuite) TestDownloads() {
	s.Run("dataset csv is an attachment", func() {
		s.service.EXPECT().DatasetCSV(gomock.Any()).Return(&dashboard.File{
			Name: "sim.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n1,2\n"),
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/downloads/dataset.csv"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(`attachment; filename="sim.csv"`, rr.Header().Get("Content-Disposition"))
		s.Equal("a,b\n1,2\n", rr.Body.String())
	})

	s.Run("missing report is 404", func() {
		s.service.EXPECT().ReportPDF(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeNotFound, "report not found"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/downloads/report.pdf"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("workbook", func() {
		s.service.EXPECT().StatisticsWorkbook(gomock.Any()).Return(&dashboard.File{
			Name: "statistics.xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: []byte("PK"),
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/downloads/statistics.xlsx"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertContentType(s.T(), rr, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	})
}

func (s *HandlerSuite) TestMap() {
	s.service.EXPECT().Map(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeSchemaMismatch, "no latitude/longitude columns configured"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/api/map"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "schema_mismatch")
}
