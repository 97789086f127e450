package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/google/uuid"
)

// JSONStore 把四类记录各存成一个 JSON 数组文件，读时整体加载、
// 写时整体重写（临时文件 + rename，避免写一半的文件落盘）。
// 每个集合一把互斥锁，串行化写入，消除并发写时的丢失更新。
type JSONStore struct {
	dataDir     string
	usersFile   string
	postsFile   string
	repliesFile string
	logsFile    string

	// AcceptReply 需要同时持有多把锁，加锁顺序固定为
	// users -> posts -> replies -> logs，防止死锁
	usersMu   sync.Mutex
	postsMu   sync.Mutex
	repliesMu sync.Mutex
	logsMu    sync.Mutex
}

var _ store.Store = (*JSONStore)(nil)

func New(dataDir string) (*JSONStore, error) {
	s := &JSONStore{
		dataDir:     dataDir,
		usersFile:   filepath.Join(dataDir, "users.json"),
		postsFile:   filepath.Join(dataDir, "posts.json"),
		repliesFile: filepath.Join(dataDir, "replies.json"),
		logsFile:    filepath.Join(dataDir, "logs.json"),
	}
	if err := s.ensureFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) ensureFiles() error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("创建数据目录失败: %w", err)
	}
	for _, f := range []string{s.usersFile, s.postsFile, s.repliesFile, s.logsFile} {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			if err := os.WriteFile(f, []byte("[]"), 0644); err != nil {
				return fmt.Errorf("初始化数据文件失败: %w", err)
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", filepath.Base(path), err)
	}
	return records, nil
}

// writeJSON 先写同目录临时文件再 rename，保证单个文件的替换是原子的
func writeJSON[T any](path string, records []T) error {
	tmp, err := stageJSON(path, records)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// stageJSON 把序列化结果落到同目录的临时文件，返回临时文件路径
func stageJSON[T any](path string, records []T) (string, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// --- 用户 ---

func (s *JSONStore) GetUserByName(name string) (*model.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readJSON[model.User](s.usersFile)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Name == name {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *JSONStore) GetUserByID(userID string) (*model.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readJSON[model.User](s.usersFile)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].UserID == userID {
			return &users[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *JSONStore) CreateUser(user *model.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readJSON[model.User](s.usersFile)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].Name == user.Name {
			return store.ErrDuplicateName
		}
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = consts.UserStatusActive
	}
	users = append(users, *user)
	return writeJSON(s.usersFile, users)
}

func (s *JSONStore) UpdateUserStatus(userID, status string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readJSON[model.User](s.usersFile)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].UserID == userID {
			users[i].Status = status
			return writeJSON(s.usersFile, users)
		}
	}
	return store.ErrNotFound
}

// --- 投稿 ---

func (s *JSONStore) GetAllPosts() ([]model.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	return readJSON[model.Post](s.postsFile)
}

func (s *JSONStore) GetPostByID(postID string) (*model.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := readJSON[model.Post](s.postsFile)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].PostID == postID {
			return &posts[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *JSONStore) CreatePost(post *model.Post) (string, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := readJSON[model.Post](s.postsFile)
	if err != nil {
		return "", err
	}
	post.PostID = uuid.NewString()
	post.CreatedAt = time.Now()
	if post.Status == "" {
		post.Status = consts.PostStatusOpen
	}
	posts = append(posts, *post)
	if err := writeJSON(s.postsFile, posts); err != nil {
		return "", err
	}
	return post.PostID, nil
}

func (s *JSONStore) UpdatePostStatus(postID, status, decidedUserID string) error {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := readJSON[model.Post](s.postsFile)
	if err != nil {
		return err
	}
	for i := range posts {
		if posts[i].PostID == postID {
			posts[i].Status = status
			if decidedUserID != "" {
				now := time.Now()
				posts[i].DecidedUserID = decidedUserID
				posts[i].DecidedAt = &now
			}
			return writeJSON(s.postsFile, posts)
		}
	}
	return store.ErrNotFound
}

// --- 回复 ---

func (s *JSONStore) GetRepliesByPostID(postID string) ([]model.Reply, error) {
	s.repliesMu.Lock()
	defer s.repliesMu.Unlock()

	replies, err := readJSON[model.Reply](s.repliesFile)
	if err != nil {
		return nil, err
	}
	var result []model.Reply
	for _, r := range replies {
		if r.PostID == postID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (s *JSONStore) GetReplyByID(replyID string) (*model.Reply, error) {
	s.repliesMu.Lock()
	defer s.repliesMu.Unlock()

	replies, err := readJSON[model.Reply](s.repliesFile)
	if err != nil {
		return nil, err
	}
	for i := range replies {
		if replies[i].ReplyID == replyID {
			return &replies[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *JSONStore) CreateReply(reply *model.Reply) (string, error) {
	s.repliesMu.Lock()
	defer s.repliesMu.Unlock()

	replies, err := readJSON[model.Reply](s.repliesFile)
	if err != nil {
		return "", err
	}
	reply.ReplyID = uuid.NewString()
	reply.CreatedAt = time.Now()
	if reply.Status == "" {
		reply.Status = consts.ReplyStatusProposed
	}
	replies = append(replies, *reply)
	if err := writeJSON(s.repliesFile, replies); err != nil {
		return "", err
	}
	return reply.ReplyID, nil
}

func (s *JSONStore) UpdateReplyStatus(replyID, status string) error {
	s.repliesMu.Lock()
	defer s.repliesMu.Unlock()

	replies, err := readJSON[model.Reply](s.repliesFile)
	if err != nil {
		return err
	}
	for i := range replies {
		if replies[i].ReplyID == replyID {
			replies[i].Status = status
			return writeJSON(s.repliesFile, replies)
		}
	}
	return store.ErrNotFound
}

// --- 接受回复（复合事务） ---

func (s *JSONStore) AcceptReply(postID, replyID, actorUserID string) error {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()
	s.repliesMu.Lock()
	defer s.repliesMu.Unlock()
	s.logsMu.Lock()
	defer s.logsMu.Unlock()

	posts, err := readJSON[model.Post](s.postsFile)
	if err != nil {
		return err
	}
	replies, err := readJSON[model.Reply](s.repliesFile)
	if err != nil {
		return err
	}
	logs, err := readJSON[model.AuditLog](s.logsFile)
	if err != nil {
		return err
	}

	pi := slices.IndexFunc(posts, func(p model.Post) bool { return p.PostID == postID })
	if pi < 0 {
		return store.ErrNotFound
	}
	if posts[pi].Status != consts.PostStatusOpen {
		return store.ErrConflict
	}
	ri := slices.IndexFunc(replies, func(r model.Reply) bool { return r.ReplyID == replyID })
	if ri < 0 || replies[ri].PostID != postID {
		return store.ErrNotFound
	}
	if replies[ri].Status != consts.ReplyStatusProposed {
		return store.ErrConflict
	}

	// 回滚用的旧快照
	oldPosts := slices.Clone(posts)
	oldReplies := slices.Clone(replies)

	now := time.Now()
	posts[pi].Status = consts.PostStatusDecided
	posts[pi].DecidedUserID = replies[ri].UserID
	posts[pi].DecidedAt = &now
	replies[ri].Status = consts.ReplyStatusAccepted
	logs = append(logs, model.AuditLog{
		LogID:     uuid.NewString(),
		Action:    consts.ActionStatusChanged,
		UserID:    actorUserID,
		PostID:    postID,
		ReplyID:   replyID,
		Details:   map[string]string{"new_status": consts.PostStatusDecided},
		Timestamp: now,
	})

	// 三个文件先全部序列化到临时文件，再依次替换；
	// 任一步失败则回写旧内容，保证要么全部生效要么全部不生效
	postsTmp, err := stageJSON(s.postsFile, posts)
	if err != nil {
		return err
	}
	repliesTmp, err := stageJSON(s.repliesFile, replies)
	if err != nil {
		_ = os.Remove(postsTmp)
		return err
	}
	logsTmp, err := stageJSON(s.logsFile, logs)
	if err != nil {
		_ = os.Remove(postsTmp)
		_ = os.Remove(repliesTmp)
		return err
	}

	if err := os.Rename(postsTmp, s.postsFile); err != nil {
		_ = os.Remove(postsTmp)
		_ = os.Remove(repliesTmp)
		_ = os.Remove(logsTmp)
		return err
	}
	if err := os.Rename(repliesTmp, s.repliesFile); err != nil {
		_ = writeJSON(s.postsFile, oldPosts)
		_ = os.Remove(repliesTmp)
		_ = os.Remove(logsTmp)
		return err
	}
	if err := os.Rename(logsTmp, s.logsFile); err != nil {
		_ = writeJSON(s.postsFile, oldPosts)
		_ = writeJSON(s.repliesFile, oldReplies)
		_ = os.Remove(logsTmp)
		return err
	}
	return nil
}

// --- 审计日志 ---

func (s *JSONStore) LogAction(entry *model.AuditLog) (string, error) {
	s.logsMu.Lock()
	defer s.logsMu.Unlock()

	logs, err := readJSON[model.AuditLog](s.logsFile)
	if err != nil {
		return "", err
	}
	if entry.LogID == "" {
		entry.LogID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	logs = append(logs, *entry)
	if err := writeJSON(s.logsFile, logs); err != nil {
		return "", err
	}
	return entry.LogID, nil
}

func (s *JSONStore) GetLogs(filter store.LogFilter) ([]model.AuditLog, error) {
	s.logsMu.Lock()
	defer s.logsMu.Unlock()

	logs, err := readJSON[model.AuditLog](s.logsFile)
	if err != nil {
		return nil, err
	}
	if filter.UserID == "" {
		return logs, nil
	}
	var result []model.AuditLog
	for _, l := range logs {
		if l.UserID == filter.UserID {
			result = append(result, l)
		}
	}
	return result, nil
}
