package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/game"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
)

// roomCodeCharset 房间码字符集
const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// matchService 对局生命周期服务实现
type matchService struct {
	repos     *repository.Manager
	registry  *game.Registry
	credits   CreditService
	publisher MatchPublisher
	cfg       *config.Config
	log       *zap.Logger
}

// NewMatchService 创建对局服务
func NewMatchService(
	repos *repository.Manager,
	registry *game.Registry,
	credits CreditService,
	publisher MatchPublisher,
	cfg *config.Config,
	log *zap.Logger,
) MatchService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &matchService{
		repos:     repos,
		registry:  registry,
		credits:   credits,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// Create 创建对局房间。房主自动入座并持先手
func (s *matchService) Create(ctx context.Context, hostUID string, gameType models.GameType) (*models.Match, error) {
	engine, err := s.registry.Get(gameType)
	if err != nil {
		return nil, err
	}

	roomCode, err := s.generateRoomCode(ctx)
	if err != nil {
		return nil, err
	}

	match := &models.Match{
		MatchID:      uuid.NewString(),
		GameType:     gameType,
		Status:       models.MatchWaiting,
		RoomCode:     roomCode,
		Players:      models.StringArray{hostUID},
		TurnUID:      hostUID,
		PlayersReady: models.BoolMap{},
		GameState:    engine.InitialState(),
		LastMoveAt:   time.Now(),
	}
	if err := s.repos.Match().Create(ctx, match); err != nil {
		return nil, err
	}

	logger.LogMatchEvent("created", match.MatchID, map[string]interface{}{
		"game_type": gameType,
		"room_code": roomCode,
		"host":      hostUID,
	})
	s.publisher.PublishMatch(match)
	return match, nil
}

// generateRoomCode 生成未被占用的房间码。
// 多次撞码就放弃，留给存储层唯一索引兜底
func (s *matchService) generateRoomCode(ctx context.Context) (string, error) {
	length := s.cfg.Game.RoomCodeLength
	if length <= 0 {
		length = 6
	}
	retries := s.cfg.Game.MaxCodeRetries
	if retries <= 0 {
		retries = 5
	}

	for i := 0; i < retries; i++ {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, errors.ErrUnknown, "生成房间码失败")
		}
		for j := range buf {
			buf[j] = roomCodeCharset[int(buf[j])%len(roomCodeCharset)]
		}
		code := string(buf)

		exists, err := s.repos.Match().RoomCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New(errors.ErrUnknown, "房间码多次撞码")
}

// Join 凭房间码加入对局。房间码大小写不敏感，
// 已是参与者时幂等返回当前对局
func (s *matchService) Join(ctx context.Context, uid, roomCode string, gameType models.GameType) (*models.Match, error) {
	match, err := s.repos.Match().FindByRoomCode(ctx, strings.ToUpper(roomCode))
	if err != nil {
		return nil, err
	}
	if gameType != "" && match.GameType != gameType {
		return nil, errors.New(errors.ErrRoomNotFound, "房间游戏类型不匹配")
	}

	if match.HasPlayer(uid) {
		return match, nil
	}
	if match.Status != models.MatchWaiting {
		return nil, errors.New(errors.ErrRoomNotJoinable, "对局已开始或已结束")
	}
	if match.IsFull() {
		return nil, errors.New(errors.ErrRoomFull, "房间已满")
	}

	match.Players = append(match.Players, uid)
	if err := s.repos.Match().UpdateFields(ctx, match.MatchID, map[string]interface{}{
		"players": match.Players,
	}); err != nil {
		return nil, err
	}

	logger.LogMatchEvent("joined", match.MatchID, map[string]interface{}{"uid": uid})
	s.publisher.PublishMatch(match)
	return match, nil
}

// Ready 玩家点准备。双方都准备好时扣费开局，
// 扣费失败则回滚双方的准备状态
func (s *matchService) Ready(ctx context.Context, uid, matchID string) (*models.Match, error) {
	match, err := s.repos.Match().FindByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(uid) {
		return nil, errors.New(errors.ErrNotParticipant, "你不是该对局的参与者")
	}
	if match.Status != models.MatchWaiting {
		return nil, errors.New(errors.ErrInvalidState, "对局不在准备阶段")
	}

	if match.PlayersReady == nil {
		match.PlayersReady = models.BoolMap{}
	}
	match.PlayersReady[uid] = true
	if err := s.repos.Match().UpdateFields(ctx, matchID, map[string]interface{}{
		"players_ready": match.PlayersReady,
	}); err != nil {
		return nil, err
	}

	if !match.BothReady() || match.CreditsDeducted {
		s.publisher.PublishMatch(match)
		return match, nil
	}

	// 双方就绪：先扣费再开局
	cost := s.cfg.Game.CreditCost
	if err := s.credits.DeductForBothPlayers(ctx, matchID, match.Players, cost); err != nil {
		// 扣费失败把双方准备状态一起退回，让两人重新来
		match.PlayersReady = models.BoolMap{}
		if rerr := s.repos.Match().UpdateFields(ctx, matchID, map[string]interface{}{
			"players_ready": match.PlayersReady,
		}); rerr != nil {
			s.log.Error("Failed to reset ready flags", zap.Error(rerr), zap.String("match_id", matchID))
		}
		s.publisher.PublishMatch(match)
		return nil, err
	}

	match.CreditsDeducted = true
	match.Status = models.MatchPlaying
	match.LastMoveAt = time.Now()
	if err := s.repos.Match().UpdateFields(ctx, matchID, map[string]interface{}{
		"credits_deducted": true,
		"status":           models.MatchPlaying,
		"last_move_at":     match.LastMoveAt,
	}); err != nil {
		return nil, err
	}

	logger.LogMatchEvent("started", matchID, map[string]interface{}{
		"players": match.Players,
		"cost":    cost,
	})
	s.publisher.PublishMatch(match)
	return match, nil
}

// Move 落子。校验与棋规判定都交给对应的规则引擎，
// 引擎结果在一次写入里落库
func (s *matchService) Move(ctx context.Context, uid, matchID string, move json.RawMessage) (*models.Match, error) {
	match, err := s.repos.Match().FindByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(uid) {
		return nil, errors.New(errors.ErrNotParticipant, "你不是该对局的参与者")
	}
	if match.Status != models.MatchPlaying {
		return nil, errors.New(errors.ErrInvalidState, "对局不在进行中")
	}

	engine, err := s.registry.Get(match.GameType)
	if err != nil {
		return nil, err
	}

	result, err := engine.ApplyMove(match.GameState, move, game.MoveContext{
		Actor:    uid,
		Opponent: match.Opponent(uid),
		Turn:     match.TurnUID,
	})
	if err != nil {
		return nil, err
	}

	match.GameState = result.State
	match.TurnUID = result.NextTurn
	match.LastMoveAt = time.Now()

	fields := map[string]interface{}{
		"game_state":   match.GameState,
		"turn_uid":     match.TurnUID,
		"last_move_at": match.LastMoveAt,
	}
	switch result.Outcome {
	case game.OutcomeWin:
		winner := result.WinnerUID
		match.Status = models.MatchFinished
		match.WinnerUID = &winner
		fields["status"] = models.MatchFinished
		fields["winner_uid"] = winner
	case game.OutcomeDraw:
		match.Status = models.MatchFinished
		match.WinnerUID = nil
		fields["status"] = models.MatchFinished
		fields["winner_uid"] = nil
	}

	if err := s.repos.Match().UpdateFields(ctx, matchID, fields); err != nil {
		return nil, err
	}

	if match.Status == models.MatchFinished {
		s.recordStats(ctx, match)
		logger.LogMatchEvent("finished", matchID, map[string]interface{}{
			"winner": match.WinnerUID,
		})
	}

	s.publisher.PublishMatch(match)
	return match, nil
}

// recordStats 对局结束后更新双方战绩。失败只记日志不影响对局结果
func (s *matchService) recordStats(ctx context.Context, match *models.Match) {
	for _, uid := range match.Players {
		var wins, losses, draws int
		switch {
		case match.WinnerUID == nil:
			draws = 1
		case *match.WinnerUID == uid:
			wins = 1
		default:
			losses = 1
		}
		if err := s.repos.User().IncrementStats(ctx, uid, wins, losses, draws); err != nil {
			s.log.Error("Failed to update player stats",
				zap.Error(err), zap.String("uid", uid), zap.String("match_id", match.MatchID))
		}
	}
}

// Get 参与者读取对局
func (s *matchService) Get(ctx context.Context, uid, matchID string) (*models.Match, error) {
	match, err := s.repos.Match().FindByMatchID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(uid) {
		return nil, errors.New(errors.ErrNotParticipant, "你不是该对局的参与者")
	}
	return match, nil
}

// History 玩家的已结束对局（按最后落子时间新到旧）
func (s *matchService) History(ctx context.Context, uid string, page, pageSize int) ([]*models.Match, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	list, err := s.repos.Match().ListFinishedByPlayer(ctx, uid, pagination)
	if err != nil {
		return nil, 0, err
	}
	return list, pagination.Total, nil
}
