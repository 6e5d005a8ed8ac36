package workflow

import (
	"context"
	"net/http"
	"testing"

	"bitbucket.org/voltride/fieldops_backend/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("gorm open error: %v", err)
	}
	return NewEngine(db, logrus.New(), nil, nil), mock
}

func expectBookingLoad(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery("SELECT GET_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(1))
	mock.ExpectQuery("SELECT \\* FROM `roadside_assistances`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "rider_id", "status"}).
			AddRow(1, "RSA1001", 3, status))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roadside_assistance_histories`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
}

func expectLockRelease(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT RELEASE_LOCK").
		WillReturnRows(sqlmock.NewRows([]string{"ok"}).AddRow(1))
}

// A pending agent declining an offer removes only that agent's row. The
// booking keeps its status, the other agents keep their offers, and the
// rider hears nothing; ops gets the decline email.
func TestSubmitEvent_PendingDeclineLeavesBookingOpen(t *testing.T) {
	t.Setenv("OPS_ALERT_EMAIL", "dispatch@example.com")
	engine, mock := newMockEngine(t)
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)

	mock.ExpectBegin()
	expectBookingLoad(mock, "CRE")
	mock.ExpectExec("DELETE FROM `booking_assignments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `roadside_assistance_histories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `effect_records`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectLockRelease(mock)
	mock.ExpectCommit()

	ev := validEvent(def, models.StatusCancelled)
	result, err := engine.SubmitEvent(context.Background(), def, ev)
	if err != nil {
		t.Fatalf("SubmitEvent: %v", err)
	}
	if !result.Accepted || result.Duplicate || result.Code != http.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Ordered expectations double as negative assertions: any status UPDATE
	// or second assignment DELETE would have failed the transaction above.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Cancelling without a pending offer and without holding the accepted
// assignment is a 404 and records nothing.
func TestSubmitEvent_DeclineWithoutAssignmentIsNotFound(t *testing.T) {
	engine, mock := newMockEngine(t)
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)

	mock.ExpectBegin()
	expectBookingLoad(mock, "A")
	mock.ExpectExec("DELETE FROM `booking_assignments`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `booking_assignments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	expectLockRelease(mock)
	mock.ExpectRollback()

	ev := validEvent(def, models.StatusCancelled)
	result, err := engine.SubmitEvent(context.Background(), def, ev)
	if err != nil {
		t.Fatalf("SubmitEvent: %v", err)
	}
	if result.Accepted || result.Code != http.StatusNotFound {
		t.Fatalf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// The accepted agent cancelling is the real cancellation: status moves to C,
// every assignment row goes away and the rider is notified.
func TestSubmitEvent_AcceptedAgentCancelsBooking(t *testing.T) {
	engine, mock := newMockEngine(t)
	def, _ := DefinitionFor(models.VerticalRoadsideAssistance)

	mock.ExpectBegin()
	expectBookingLoad(mock, "A")
	mock.ExpectExec("DELETE FROM `booking_assignments`").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `booking_assignments`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))
	mock.ExpectExec("INSERT INTO `roadside_assistance_histories`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `roadside_assistances`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `booking_assignments`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `riders`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "device_token"}).
			AddRow(3, "Aisha", "aisha@example.com", "+971502222333", nil))
	mock.ExpectExec("INSERT INTO `notifications`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Cancellation is an email milestone.
	mock.ExpectExec("INSERT INTO `effect_records`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	expectLockRelease(mock)
	mock.ExpectCommit()

	ev := validEvent(def, models.StatusCancelled)
	result, err := engine.SubmitEvent(context.Background(), def, ev)
	if err != nil {
		t.Fatalf("SubmitEvent: %v", err)
	}
	if !result.Accepted || result.Code != http.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
