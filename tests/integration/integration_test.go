package integrations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"classquest/internal/app"
	"classquest/internal/gamebridge"
	"classquest/internal/models"
	"classquest/internal/pkg/logger"
	"classquest/internal/service"
	"classquest/internal/session"
	"classquest/internal/storage"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/suite"
)

var testDatabaseURI, testServerPort string

func init() {
	if err := godotenv.Load("../integration/.env"); err != nil {
		log.Println("No .env file found, using default values")
	}

	testDatabaseURI = os.Getenv("TEST_DATABASE_URI")
	testServerPort = os.Getenv("TEST_SERVER_PORT")
}

type IntegrationTestSuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	db        *storage.PostgreSQL
	className string
}

func (s *IntegrationTestSuite) SetupSuite() {

	var l *logger.Logger
	var err error
	if l, err = logger.CreateLogger("info"); err != nil {
		log.Fatal("Failed to create logger:", err)
	}

	s.db, err = storage.NewPostgreSQL(testDatabaseURI, l)
	s.Require().NoError(err, "Error connecting to test database")

	sessions := session.NewStore()
	bridge := gamebridge.NewBridge()
	appInstance := app.NewApp(s.db, sessions, l)
	serviceInstance := service.NewService(appInstance, bridge, "localhost:"+testServerPort, l)

	s.server = httptest.NewServer(serviceInstance.NewRouter())
	s.client = s.server.Client()

	// Unique class per run keeps the leaderboard assertions deterministic
	// against whatever earlier runs left in the database.
	s.className = fmt.Sprintf("7A-%d", time.Now().UnixNano())
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.server.Close()
	s.db.Close()
}

// registerAndLogin creates a fresh account and returns its token and user ID.
func (s *IntegrationTestSuite) registerAndLogin(name, role, teacherKey string) (string, string) {
	email := fmt.Sprintf("%s-%d@classquest.test", role, time.Now().UnixNano())
	password := "secret1"

	registerReq := models.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   password,
		Role:       role,
		TeacherKey: teacherKey,
	}
	if role == models.RoleStudent {
		registerReq.ClassName = s.className
	}
	reqBody, err := json.Marshal(registerReq)
	s.Require().NoError(err, "Error marshaling registration request")

	resp, err := s.client.Post(s.server.URL+"/api/register", "application/json", bytes.NewBuffer(reqBody))
	s.Require().NoError(err, "Error sending registration request")
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Expected status 201 for registration")

	var user models.User
	err = json.NewDecoder(resp.Body).Decode(&user)
	resp.Body.Close()
	s.Require().NoError(err, "Error decoding registration response")
	s.Require().NotEmpty(user.ID, "User ID should not be empty")

	loginReq := models.LoginRequest{Email: email, Password: password}
	reqBody, err = json.Marshal(loginReq)
	s.Require().NoError(err, "Error marshaling login request")

	resp, err = s.client.Post(s.server.URL+"/api/login", "application/json", bytes.NewBuffer(reqBody))
	s.Require().NoError(err, "Error sending login request")
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for login")

	var authResp models.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	resp.Body.Close()
	s.Require().NoError(err, "Error decoding login response")
	s.Require().NotEmpty(authResp.Token, "Token should not be empty")
	s.Require().Equal(role, authResp.Role)

	return authResp.Token, user.ID
}

func (s *IntegrationTestSuite) doJSON(method, path, token string, payload interface{}, out interface{}) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		s.Require().NoError(err, "Error marshaling request payload")
		body = bytes.NewBuffer(reqBody)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, body)
	s.Require().NoError(err, "Error creating request")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Error executing request")
	if out != nil {
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		s.Require().NoError(err, "Error decoding response")
	} else {
		resp.Body.Close()
	}
	return resp
}

func (s *IntegrationTestSuite) TestWelcomeBonusAndPurchase() {
	token, _ := s.registerAndLogin("Ana", models.RoleStudent, "")

	var panel models.StudentPanelView
	resp := s.doJSON("GET", "/api/panel/student", token, nil, &panel)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for student panel")
	s.Require().Equal(2500, panel.Gold, "First panel activation should grant the welcome bonus")
	s.Require().True(panel.BonusGranted)

	// A second activation must not grant the bonus again.
	resp = s.doJSON("GET", "/api/panel/student", token, nil, &panel)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal(2500, panel.Gold, "Welcome bonus must be granted exactly once")
	s.Require().False(panel.BonusGranted)

	// Buy the cheapest micro item at its authoritative price.
	s.Require().NotEmpty(panel.Shop.Micro, "Seeded shop should offer micro items")
	item := panel.Shop.Micro[0]

	var purchaseResp models.PurchaseResponse
	resp = s.doJSON("POST", "/api/buy", token,
		models.PurchaseRequest{ItemID: item.ID, Price: item.Price}, &purchaseResp)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for purchase")
	s.Require().Equal(2500-item.Price, purchaseResp.Gold, "Purchase should debit the item price")
	s.Require().NotNil(purchaseResp.Purchase)
	s.Require().Equal(item.ID, purchaseResp.Purchase.ItemID)

	// A remembered price that no longer matches rejects the purchase.
	resp = s.doJSON("POST", "/api/buy", token,
		models.PurchaseRequest{ItemID: item.ID, Price: item.Price - 1}, nil)
	s.Require().Equal(http.StatusConflict, resp.StatusCode, "Stale price should be rejected with 409")

	// The purchased item shows up stacked in the inventory.
	resp = s.doJSON("GET", "/api/panel/student", token, nil, &panel)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NotEmpty(panel.Inventory, "Inventory should contain the purchased item")
	s.Require().Equal(item.ID, panel.Inventory[0].Items[0].ItemID)
	s.Require().Equal(1, panel.Inventory[0].Items[0].Count)
}

func (s *IntegrationTestSuite) TestGameSignalsCreditTwice() {
	token, _ := s.registerAndLogin("Bohdan", models.RoleStudent, "")

	var panel models.StudentPanelView
	resp := s.doJSON("GET", "/api/panel/student", token, nil, &panel)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal(2500, panel.Gold)

	// The same coin signal twice credits twice; the protocol has no
	// de-duplication.
	for _, wantGold := range []int{2550, 2600} {
		var signalResp models.GameSignalResponse
		resp = s.doJSON("POST", "/api/game/signal", token,
			models.GameSignalRequest{Payload: "ADD_COINS|50"}, &signalResp)
		s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for game signal")
		s.Require().Equal(50, signalResp.Credited)
		s.Require().Equal(wantGold, signalResp.Gold)
	}

	var user models.User
	resp = s.doJSON("GET", "/api/session", token, nil, &user)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().Equal(2600, user.Profile.Gold, "Both signals should have been credited")

	// A close signal mutates nothing.
	var signalResp models.GameSignalResponse
	resp = s.doJSON("POST", "/api/game/signal", token,
		models.GameSignalRequest{Payload: "CLOSE_GAME"}, &signalResp)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().True(signalResp.Closed)
	s.Require().Equal(2600, signalResp.Gold)
}

func (s *IntegrationTestSuite) TestTeacherOverrideAndLeaderboard() {
	studentToken, studentID := s.registerAndLogin("Clara", models.RoleStudent, "")
	teacherToken, _ := s.registerAndLogin("Mr. Lee", models.RoleTeacher, "TEACHER-ACCESS-2025")

	var panel models.StudentPanelView
	resp := s.doJSON("GET", "/api/panel/student", studentToken, nil, &panel)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	// Students cannot reach teacher endpoints.
	resp = s.doJSON("PUT", "/api/teacher/students/"+studentID+"/gold", studentToken,
		models.GoldOverrideRequest{Gold: 1000}, nil)
	s.Require().Equal(http.StatusForbidden, resp.StatusCode, "Student should be forbidden on teacher routes")

	resp = s.doJSON("PUT", "/api/teacher/students/"+studentID+"/gold", teacherToken,
		models.GoldOverrideRequest{Gold: 1000}, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for gold override")

	var rows []models.LeaderboardRow
	resp = s.doJSON("GET", "/api/teacher/classes/"+s.className, teacherToken, nil, &rows)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for class view")

	var found bool
	for _, row := range rows {
		if row.UserID == studentID {
			found = true
			s.Require().Equal(1000, row.Gold, "Override should be visible on the leaderboard")
		}
	}
	s.Require().True(found, "Overridden student should appear on the class leaderboard")

	var profile models.StudentProfileView
	resp = s.doJSON("GET", "/api/teacher/students/"+studentID, teacherToken, nil, &profile)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "Expected status 200 for student profile")
	s.Require().Equal(1000, profile.Gold)
	s.Require().Equal("Clara", profile.Name)
}

func TestIntegrationSuite(t *testing.T) {
	if testDatabaseURI == "" {
		t.Skip("TEST_DATABASE_URI is not set; skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}
