package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pedidos-api/config"
	"github.com/kendall-kelly/pedidos-api/routes"
	"github.com/kendall-kelly/pedidos-api/services"
	"github.com/kendall-kelly/pedidos-api/tests/testutil"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	services.PasswordHashCost = bcrypt.MinCost
}

// appSuite runs the full router behind a real HTTP server with local attachment storage
type appSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
	cfg    *config.Config
	client *http.Client
}

// SetupTest starts a fresh application for every test
func (s *appSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.cfg = &config.Config{
		DBDriver:       config.DriverSQLite,
		GoEnv:          "test",
		AllowedOrigins: []string{"http://localhost:5173"},
		SessionSecret:  testutil.TestSessionSecret,
		SessionTTL:     time.Hour,
		UploadDir:      s.T().TempDir(),
	}
	config.SetConfig(s.cfg)

	s.db = testutil.NewTestDB(s.T())
	config.SetDB(s.db)

	sessions, err := services.InitSessionService(s.cfg.SessionSecret, s.cfg.SessionTTL)
	s.Require().NoError(err)
	services.InitAttachmentService(services.NewLocalStorage(s.cfg.UploadDir))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := routes.SetupRouter(s.cfg, logger, sessions)
	s.Require().NoError(err)

	s.server = httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.client = &http.Client{Jar: jar}
}

// TearDownTest stops the server
func (s *appSuite) TearDownTest() {
	s.server.Close()
}

// do sends a JSON request with the suite's cookie jar and decodes the envelope
func (s *appSuite) do(method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.send(req)
}

func (s *appSuite) send(req *http.Request) (*http.Response, map[string]interface{}) {
	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var data map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&data))
	return resp, data
}

// login registers an operator and signs in, leaving the session cookie in the jar
func (s *appSuite) login() uint {
	credentials := map[string]interface{}{
		"name":     "Operator",
		"email":    "operator@pedidos.test",
		"password": "s3cret-pass",
	}
	resp, data := s.do(http.MethodPost, "/usuarios/register", credentials)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, data)

	resp, data = s.do(http.MethodPost, "/usuarios/login", map[string]interface{}{
		"email":    credentials["email"],
		"password": credentials["password"],
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, data)

	return uint(data["data"].(map[string]interface{})["id"].(float64))
}

// createID posts body to path and returns the id of the created resource
func (s *appSuite) createID(path string, body interface{}) float64 {
	resp, data := s.do(http.MethodPost, path, body)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, data)
	return data["data"].(map[string]interface{})["id"].(float64)
}

// seedReferences creates the channel, store and customer an order needs
func (s *appSuite) seedReferences() (storeID, customerID float64) {
	channelID := s.createID("/canais", map[string]interface{}{"name": "Marketplace"})
	storeID = s.createID("/lojas", map[string]interface{}{"name": "Loja Centro", "channel_id": channelID})
	customerID = s.createID("/clientes/register", map[string]interface{}{
		"name":        "Maria Silva",
		"national_id": "123.456.789-09",
	})
	return storeID, customerID
}
