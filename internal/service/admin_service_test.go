package service

import (
	"testing"
	"time"

	"github.com/kaz2018/agemas/internal/common"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/testutils"
	"github.com/kaz2018/agemas/internal/utils"
)

const adminID = "u-admin"

func newAdminService(t *testing.T) (*AdminService, store.Store) {
	t.Helper()
	st := testutils.NewJSONStore(t)
	return NewAdminService(st), st
}

func TestAdminCreateUser(t *testing.T) {
	svc, st := newAdminService(t)

	userID, err := svc.CreateUser(adminID, "田中花子", "password123", consts.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	user, err := st.GetUserByID(userID)
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if user.Role != consts.RoleUser || user.Status != consts.UserStatusActive {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "password123" {
		t.Fatalf("password must be stored hashed")
	}
	if !utils.CheckPassword("password123", user.PasswordHash) {
		t.Fatalf("stored hash does not verify")
	}

	// user_created 审计日志
	logs, err := st.GetLogs(store.LogFilter{UserID: adminID})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != consts.ActionUserCreated {
		t.Fatalf("expected one user_created log, got %+v", logs)
	}
}

func TestAdminCreateUser_DuplicateName(t *testing.T) {
	svc, _ := newAdminService(t)

	if _, err := svc.CreateUser(adminID, "田中花子", "password123", consts.RoleUser); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	_, err := svc.CreateUser(adminID, "田中花子", "otherpass456", consts.RoleUser)
	se, ok := common.AsServiceError(err)
	if !ok || se.Code != common.ErrorCodeConflict {
		t.Fatalf("expected conflict for duplicate name, got %v", err)
	}
}

func TestAdminCreateUser_Validation(t *testing.T) {
	svc, _ := newAdminService(t)

	tests := []struct {
		name     string
		userName string
		password string
		role     string
	}{
		{name: "empty_name", userName: "", password: "password123", role: consts.RoleUser},
		{name: "short_password", userName: "田中花子", password: "short7", role: consts.RoleUser},
		{name: "bad_role", userName: "田中花子", password: "password123", role: "superuser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(adminID, tt.userName, tt.password, tt.role)
			se, ok := common.AsServiceError(err)
			if !ok || se.Code != common.ErrorCodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSuspendAndUnsuspend(t *testing.T) {
	svc, st := newAdminService(t)

	targetID, err := svc.CreateUser(adminID, "佐藤太郎", "password123", consts.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	if err := svc.SuspendUser(adminID, targetID); err != nil {
		t.Fatalf("SuspendUser error: %v", err)
	}
	user, _ := st.GetUserByID(targetID)
	if user.Status != consts.UserStatusSuspended {
		t.Fatalf("expected suspended, got %s", user.Status)
	}

	if err := svc.UnsuspendUser(adminID, targetID); err != nil {
		t.Fatalf("UnsuspendUser error: %v", err)
	}
	user, _ = st.GetUserByID(targetID)
	if user.Status != consts.UserStatusActive {
		t.Fatalf("expected active, got %s", user.Status)
	}

	// 停用与恢复各记一条日志，target_user 指向被操作者
	logs, err := st.GetLogs(store.LogFilter{UserID: adminID})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	var suspended, unsuspended bool
	for _, l := range logs {
		switch l.Action {
		case consts.ActionUserSuspended:
			suspended = l.Details["target_user"] == targetID
		case consts.ActionUserUnsuspended:
			unsuspended = l.Details["target_user"] == targetID
		}
	}
	if !suspended || !unsuspended {
		t.Fatalf("suspend/unsuspend logs missing or wrong: %+v", logs)
	}
}

func TestSuspendUser_Self(t *testing.T) {
	svc, _ := newAdminService(t)

	err := svc.SuspendUser(adminID, adminID)
	se, ok := common.AsServiceError(err)
	if !ok || se.Code != common.ErrorCodeValidation {
		t.Fatalf("expected validation error suspending self, got %v", err)
	}
}

func TestSuspendUser_NotFound(t *testing.T) {
	svc, _ := newAdminService(t)

	err := svc.SuspendUser(adminID, "no-such-user")
	se, ok := common.AsServiceError(err)
	if !ok || se.Code != common.ErrorCodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSearchLogs_NewestFirst(t *testing.T) {
	svc, st := newAdminService(t)

	base := time.Now()
	entries := []model.AuditLog{
		{Action: consts.ActionPostCreated, UserID: "u1", Timestamp: base.Add(-time.Minute)},
		{Action: consts.ActionReplyCreated, UserID: "u2", Timestamp: base},
	}
	for i := range entries {
		if _, err := st.LogAction(&entries[i]); err != nil {
			t.Fatalf("LogAction error: %v", err)
		}
	}

	logs, err := svc.SearchLogs(store.LogFilter{})
	if err != nil {
		t.Fatalf("SearchLogs error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].Timestamp.Before(logs[1].Timestamp) {
		t.Fatalf("logs must be sorted newest first")
	}
}
