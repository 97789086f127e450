package gormstore

import (
	"errors"
	"testing"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/testutils"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	return New(testutils.SetupDB(t))
}

func mustCreateUser(t *testing.T, st *GormStore, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Role: consts.RoleUser, PasswordHash: "x"}
	if err := st.CreateUser(u); err != nil {
		t.Fatalf("CreateUser(%s) error: %v", name, err)
	}
	return u
}

func mustCreatePost(t *testing.T, st *GormStore, owner *model.User) string {
	t.Helper()
	postID, err := st.CreatePost(&model.Post{
		UserID:      owner.UserID,
		UserName:    owner.Name,
		Title:       "冬服セット",
		Description: "90-100cm",
		Category:    "子ども用品",
		Images:      []string{"/imgs/a.png"},
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	return postID
}

func TestCreateUser_Duplicate(t *testing.T) {
	st := newTestStore(t)
	mustCreateUser(t, st, "田中花子")

	err := st.CreateUser(&model.User{Name: "田中花子", PasswordHash: "y"})
	if !errors.Is(err, store.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestNotFoundTranslation(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetUserByID("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUserByID: expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetPostByID("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetPostByID: expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetReplyByID("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetReplyByID: expected ErrNotFound, got %v", err)
	}
	if err := st.UpdateUserStatus("missing", consts.UserStatusSuspended); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateUserStatus: expected ErrNotFound, got %v", err)
	}
	if err := st.UpdatePostStatus("missing", consts.PostStatusCancelled, ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdatePostStatus: expected ErrNotFound, got %v", err)
	}
}

func TestPostImagesSerialization(t *testing.T) {
	st := newTestStore(t)
	u := mustCreateUser(t, st, "田中花子")
	postID := mustCreatePost(t, st, u)

	post, err := st.GetPostByID(postID)
	if err != nil {
		t.Fatalf("GetPostByID error: %v", err)
	}
	if len(post.Images) != 1 || post.Images[0] != "/imgs/a.png" {
		t.Fatalf("images not round-tripped: %+v", post.Images)
	}
}

func TestAcceptReply_Transactional(t *testing.T) {
	st := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	replier := mustCreateUser(t, st, "佐藤太郎")
	postID := mustCreatePost(t, st, owner)

	replyID, err := st.CreateReply(&model.Reply{PostID: postID, UserID: replier.UserID, Message: "欲しいです！"})
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
	if post.Status != consts.PostStatusDecided || post.DecidedUserID != replier.UserID || post.DecidedAt == nil {
		t.Fatalf("unexpected post state after accept: %+v", post)
	}

	reply, err := st.GetReplyByID(replyID)
	if err != nil {
		t.Fatalf("GetReplyByID error: %v", err)
	}
	if reply.Status != consts.ReplyStatusAccepted {
		t.Fatalf("expected accepted reply, got %s", reply.Status)
	}

	logs, err := st.GetLogs(store.LogFilter{UserID: owner.UserID})
	if err != nil {
		t.Fatalf("GetLogs error: %v", err)
	}
	if len(logs) != 1 || logs[0].Action != consts.ActionStatusChanged {
		t.Fatalf("expected one status_changed log, got %+v", logs)
	}

	// 再次接受同一投稿的回复必须失败
	second, err := st.CreateReply(&model.Reply{PostID: postID, UserID: replier.UserID, Message: "again"})
	if err != nil {
		t.Fatalf("CreateReply error: %v", err)
	}
	if err := st.AcceptReply(postID, second, owner.UserID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRepliesByPost(t *testing.T) {
	st := newTestStore(t)
	owner := mustCreateUser(t, st, "田中花子")
	replier := mustCreateUser(t, st, "佐藤太郎")
	postA := mustCreatePost(t, st, owner)
	postB := mustCreatePost(t, st, owner)

	for _, pid := range []string{postA, postA, postB} {
		if _, err := st.CreateReply(&model.Reply{PostID: pid, UserID: replier.UserID, Message: "m"}); err != nil {
			t.Fatalf("CreateReply error: %v", err)
		}
	}

	replies, err := st.GetRepliesByPostID(postA)
	if err != nil {
		t.Fatalf("GetRepliesByPostID error: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("expected 2 replies for postA, got %d", len(replies))
	}
}
