package jsonstore

import (
	"errors"
	"testing"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
)

func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := New(dir)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return st, dir
}

func mustCreateUser(t *testing.T, st *JSONStore, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Role: consts.RoleUser, PasswordHash: "x"}
	if err := st.CreateUser(u); err != nil {
		t.Fatalf("CreateUser(%s) error: %v", name, err)
	}
	return u
}

func mustCreatePost(t *testing.T, st *JSONStore, owner *model.User) string {
	t.Helper()
	postID, err := st.CreatePost(&model.Post{
		UserID:      owner.UserID,
		UserName:    owner.Name,
		Title:       "冬服セット",
		Description: "90-100cm",
		Category:    "子ども用品",
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	return postID
}

func TestCreateUser_Defaults(t *testing.T) {
	st, _ := newTestStore(t)

	u := mustCreateUser(t, st, "田中花子")
	if u.UserID == "" {
		t.Fatalf("expected generated user id")
	}
	if u.Status != consts.UserStatusActive {
		t.Fatalf("expected default status active, got %s", u.Status)
	}
	if u.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}

	got, err := st.GetUserByName("田中花子")
	if err != nil {
		t.Fatalf("GetUserByName error: %v", err)
	}
	if got.UserID != u.UserID {
		t.Fatalf("GetUserByName returned wrong user: %+v", got)
	}
}

func TestCreateUser_DuplicateName(t *testing.T) {
	st, _ := newTestStore(t)
	mustCreateUser(t, st, "田中花子")

	err := st.CreateUser(&model.User{Name: "田中花子", PasswordHash: "y"})
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	st, _ := newTestStore(t)

	if _, err := st.GetUserByName("nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUserByName: expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetUserByID("no-such-id"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUserByID: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateUserStatus(t *testing.T) {
	st, _ := newTestStore(t)
	u := mustCreateUser(t, st, "田中花子")

	if err := st.UpdateUserStatus(u.UserID, consts.UserStatusSuspended); err != nil {
		t.Fatalf("UpdateUserStatus error: %v", err)
	}
	got, err := st.GetUserByID(u.UserID)
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if got.Status != consts.UserStatusSuspended {
		t.Fatalf("expected suspended, got %s", got.Status)
	}

	if err := st.UpdateUserStatus("no-such-id", consts.UserStatusActive); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestCreatePost_Defaults(t *testing.T) {
	st, _ := newTestStore(t)
	u := mustCreateUser(t, st, "田中花子")

	postID := mustCreatePost(t, st, u)
	post, err := st.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID error: %v", err)
	}
	if post.Status != consts.PostStatusOpen {
		t.Fatalf("expected default status open, got %s", post.Status)
	}
	if post.DecidedUserID != "" || post.DecidedAt != nil {
		t.Fatalf("new post should not carry decided fields: %+v", post)
	}
}

func TestAcceptReply_Compound(t *testing.T) {
	st, _ := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	replier := mustCreateUser(t, st, "佐藤太郎")
	postID := mustCreatePost(t, st, owner)

	replyID, err := st.CreateReply(&model.Reply{
		PostID:   postID,
		UserID:   replier.UserID,
		UserName: replier.Name,
		Message:  "欲しいです！",
	})
	if err != nil {
		t.Fatalf("CreateReply error: %v", err)
	}

	if err := st.AcceptReply(postID, replyID, owner.UserID); err != nil {
		t.Fatalf("AcceptReply error: %v", err)
	}

	post, err := st.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID error: %v", err)
	}
	if post.Status != consts.PostStatusDecided {
		t.Fatalf("expected post decided, got %s", post.Status)
	}
	if post.DecidedUserID != replier.UserID || post.DecidedAt == nil {
		t.Fatalf("decided fields not recorded: %+v", post)
	}

	reply, err := st.GetReplyByID(replyID)
	if err != nil {
		t.Fatalf("GetReplyByID error: %v", err)
	}
	if reply.Status != consts.ReplyStatusAccepted {
		t.Fatalf("expected reply accepted, got %s", reply.Status)
	}

	logs, err := st.GetLogs(store.LogFilter{})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	var found int
	for _, l := range logs {
		if l.Action == consts.ActionStatusChanged && l.PostID == postID {
			found++
			if l.UserID != owner.UserID || l.ReplyID != replyID {
				t.Fatalf("log actor/reply mismatch: %+v", l)
			}
			if l.Details["new_status"] != consts.PostStatusDecided {
				t.Fatalf("log details mismatch: %+v", l.Details)
			}
		}
	}
	if found != 1 {
		t.Fatalf("expected exactly one status_changed log, got %d", found)
	}
}

func TestAcceptReply_SecondAcceptConflicts(t *testing.T) {
	st, _ := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	replier := mustCreateUser(t, st, "佐藤太郎")
	postID := mustCreatePost(t, st, owner)

	first, err := st.CreateReply(&model.Reply{PostID: postID, UserID: replier.UserID, Message: "a"})
	if err != nil {
		t.Fatalf("CreateReply error: %v", err)
	}
	second, err := st.CreateReply(&model.Reply{PostID: postID, UserID: replier.UserID, Message: "b"})
	if err != nil {
		t.Fatalf("CreateReply error: %v", err)
	}

	if err := st.AcceptReply(postID, first, owner.UserID); err != nil {
		t.Fatalf("first AcceptReply error: %v", err)
	}
	if err := st.AcceptReply(postID, second, owner.UserID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second accept: expected ErrConflict, got %v", err)
	}

	// 第二条回复必须保持 proposed，不允许出现两条 accepted
	reply, err := st.GetReplyByID(second)
	if err != nil {
		t.Fatalf("GetReplyByID error: %v", err)
	}
	if reply.Status != consts.ReplyStatusProposed {
		t.Fatalf("second reply should stay proposed, got %s", reply.Status)
	}
}

func TestAcceptReply_WrongPost(t *testing.T) {
	st, _ := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	replier := mustCreateUser(t, st, "佐藤太郎")
	postA := mustCreatePost(t, st, owner)
	postB := mustCreatePost(t, st, owner)

	replyID, err := st.CreateReply(&model.Reply{PostID: postA, UserID: replier.UserID, Message: "a"})
	if err != nil {
		t.Fatalf("CreateReply error: %v", err)
	}

	// 回复属于别的投稿时按不存在处理
	if err := st.AcceptReply(postB, replyID, owner.UserID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReopenPersistence(t *testing.T) {
	st, dir := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	postID := mustCreatePost(t, st, owner)

	// 用同一目录重新打开，数据必须还在
	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	post, err := reopened.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID after reopen error: %v", err)
	}
	if post.Title != "冬服セット" {
		t.Fatalf("post content lost after reopen: %+v", post)
	}
	if _, err := reopened.GetUserByName("田中花子"); err != nil {
		t.Fatalf("user lost after reopen: %v", err)
	}
}

func TestGetLogs_FilterByUser(t *testing.T) {
	st, _ := newTestStore(t)

	for _, uid := range []string{"u1", "u1", "u2"} {
		if _, err := st.LogAction(&model.AuditLog{Action: consts.ActionPostCreated, UserID: uid}); err != nil {
			t.Fatalf("LogAction error: %v", err)
		}
	}

	logs, err := st.GetLogs(store.LogFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs for u1, got %d", len(logs))
	}

	all, err := st.GetLogs(store.LogFilter{})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs total, got %d", len(all))
	}
}

func TestUpdatePostStatus_DecidedFields(t *testing.T) {
	st, _ := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	postID := mustCreatePost(t, st, owner)

	// 不带 decidedUserID 的状态变更不应写 decided 字段
	if err := st.UpdatePostStatus(postID, consts.PostStatusCancelled, ""); err != nil {
		t.Fatalf("UpdatePostStatus error: %v", err)
	}
	post, err := st.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID error: %v", err)
	}
	if post.Status != consts.PostStatusCancelled || post.DecidedUserID != "" || post.DecidedAt != nil {
		t.Fatalf("unexpected post state: %+v", post)
	}
}
