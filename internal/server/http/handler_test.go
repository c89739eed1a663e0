package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/leshachaplin/convgate/internal/dispatch/meta"
	"github.com/leshachaplin/convgate/internal/domain"
	"github.com/leshachaplin/convgate/internal/registry"
	"github.com/leshachaplin/convgate/internal/service"
)

type fakeDispatcher struct {
	sent []domain.CanonicalEvent
	err  error
}

func (f *fakeDispatcher) Send(_ context.Context, event domain.CanonicalEvent) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, event)
	return nil
}

type HandlerTestSuite struct {
	suite.Suite

	sink   *fakeDispatcher
	server *Server
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.sink = &fakeDispatcher{}
	s.server = newTestServer(s.sink)
}

func newTestServer(dispatcher service.Dispatcher) *Server {
	builder := service.NewBuilder("", "BRL", zerolog.Nop())
	processor := service.New(registry.Default(), dispatcher, builder, zerolog.Nop())
	srv := New(NewHandler(processor, zerolog.Nop()))
	srv.registerPublicRoutes()
	return srv
}

func (s *HandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.server.publicRouter.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) TestFunnelEvent() {
	body := `{
		"title": "lead_telegram",
		"contact": {
			"telegram_id": "999",
			"variables": {"lead_id": "abc123", "utm_source": "ig"}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/funnel/event", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "SendPulse-Webhook")

	rec := s.serve(req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp eventResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().True(resp.OK)
	s.Require().Equal("Lead_Telegram", resp.Event)
	s.Require().Equal("abc123_Lead_Telegram", resp.EventID)

	s.Require().Len(s.sink.sent, 1)
	sent := s.sink.sent[0]
	s.Require().Equal("203.0.113.7", sent.Identity.ClientIP)
	s.Require().Equal("SendPulse-Webhook", sent.Identity.ClientUserAgent)
	s.Require().Equal("ig", sent.Attributes["utm_source"])
}

func (s *HandlerTestSuite) TestFunnelEvent_OverrideBeatsTitle() {
	body := `{"title":"lead_telegram","contact":{"variables":{"lead_id":"abc123"}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/funnel/event?e=registro_casa", strings.NewReader(body))

	rec := s.serve(req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp eventResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Equal("Registro_Casa", resp.Event)
}

func (s *HandlerTestSuite) TestFunnelEvent_UnmappedKey() {
	req := httptest.NewRequest(http.MethodPost, "/v1/funnel/event?e=unknown_key_xyz", strings.NewReader(`{}`))

	rec := s.serve(req)
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Contains(rec.Body.String(), "unknown_key_xyz")
	s.Require().Empty(s.sink.sent)
}

func (s *HandlerTestSuite) TestFunnelEvent_SinkFailure() {
	s.sink.err = fmt.Errorf("%w: status 500", domain.ErrSink)
	body := `{"title":"lead_telegram","contact":{"variables":{"lead_id":"abc123"}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/funnel/event", strings.NewReader(body))

	rec := s.serve(req)
	s.Require().Equal(http.StatusBadGateway, rec.Code)
}

func (s *HandlerTestSuite) TestFunnelPing() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/v1/funnel/event", nil))
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Equal("OK", rec.Body.String())
}

func (s *HandlerTestSuite) TestPostback() {
	req := httptest.NewRequest(
		http.MethodGet,
		"/v1/postback?ev=ftd&click_id=CID1&first_deposit_amount=150,50",
		nil,
	)

	rec := s.serve(req)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp eventResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Equal("ftd_vupibet", resp.Event)
	s.Require().Equal("CID1_ftd_vupibet", resp.EventID)

	s.Require().Len(s.sink.sent, 1)
	sent := s.sink.sent[0]
	s.Require().Equal(domain.ActionSourceWebsite, sent.ActionSource)
	s.Require().InDelta(150.50, sent.Attributes["value"], 1e-9)
	s.Require().Equal("BRL", sent.Attributes["currency"])
}

func (s *HandlerTestSuite) TestPostback_UnmappedEventType() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/v1/postback?ev=nope&click_id=CID1", nil))
	s.Require().Equal(http.StatusBadRequest, rec.Code)
	s.Require().Empty(s.sink.sent)
}

func (s *HandlerTestSuite) TestReady() {
	for _, path := range []string{"/", "/_/ready"} {
		rec := s.serve(httptest.NewRequest(http.MethodGet, path, nil))
		s.Require().Equal(http.StatusOK, rec.Code)
		s.Require().Equal("OK", rec.Body.String())
	}
}

func (s *HandlerTestSuite) TestMetricsExposed() {
	rec := s.serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	s.Require().Equal(http.StatusOK, rec.Code)
}

// A gateway without sink credentials must reject dispatch attempts before
// any network call, as a server-side error.
func TestFunnelEvent_MissingCredentials(t *testing.T) {
	srv := newTestServer(meta.New(meta.Config{}, zerolog.Nop()))

	body := `{"title":"lead_telegram","contact":{"variables":{"lead_id":"abc123"}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/funnel/event", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.publicRouter.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
