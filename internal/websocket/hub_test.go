package websocket

import (
	"encoding/json"
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// HubTestSuite Hub测试套件
type HubTestSuite struct {
	suite.Suite
	hub *Hub
}

func (suite *HubTestSuite) SetupTest() {
	suite.hub = NewHub(zap.NewNop())
}

// 直连Hub内部方法造一个在线客户端（不走真实连接）
func (suite *HubTestSuite) addClient(uid string) *Client {
	client := &Client{
		ID:   uid + "-client",
		UID:  uid,
		Hub:  suite.hub,
		Send: make(chan []byte, 16),
	}
	suite.hub.registerClient(client)
	// 丢掉连接欢迎消息
	<-client.Send
	return client
}

func (suite *HubTestSuite) readMessage(client *Client) *Message {
	select {
	case data := <-client.Send:
		var msg Message
		suite.Require().NoError(json.Unmarshal(data, &msg))
		return &msg
	default:
		return nil
	}
}

// 对局推送覆盖双方玩家，完整文档随消息带出
func (suite *HubTestSuite) TestPublishMatchToPlayers() {
	alice := suite.addClient("uid-alice")
	bob := suite.addClient("uid-bob")
	stranger := suite.addClient("uid-other")

	match := &models.Match{
		MatchID:  "m-1",
		GameType: models.GameTicTacToe,
		Status:   models.MatchPlaying,
		Players:  models.StringArray{"uid-alice", "uid-bob"},
		TurnUID:  "uid-alice",
	}
	suite.hub.PublishMatch(match)

	for _, client := range []*Client{alice, bob} {
		msg := suite.readMessage(client)
		suite.Require().NotNil(msg)
		suite.Equal(MessageTypeMatchUpdate, msg.Type)
		suite.Equal("m-1", msg.MatchID)

		var doc models.Match
		suite.NoError(json.Unmarshal(msg.Data, &doc))
		suite.Equal("uid-alice", doc.TurnUID)
	}

	// 无关客户端不收
	suite.Nil(suite.readMessage(stranger))
}

// 显式订阅的客户端也能收到
func (suite *HubTestSuite) TestPublishMatchToSubscriber() {
	watcher := suite.addClient("uid-watcher")
	watcher.Subscribe("m-2")

	suite.hub.PublishMatch(&models.Match{
		MatchID: "m-2",
		Players: models.StringArray{"uid-a", "uid-b"},
	})

	msg := suite.readMessage(watcher)
	suite.Require().NotNil(msg)
	suite.Equal("m-2", msg.MatchID)
}

// 注销后不再接收，多端在线都收到
func (suite *HubTestSuite) TestRegisterUnregister() {
	first := suite.addClient("uid-a")
	second := &Client{ID: "second", UID: "uid-a", Hub: suite.hub, Send: make(chan []byte, 16)}
	suite.hub.registerClient(second)
	<-second.Send
	suite.Equal(2, suite.hub.GetOnlineCount())

	match := &models.Match{MatchID: "m-3", Players: models.StringArray{"uid-a"}}
	suite.hub.PublishMatch(match)
	suite.NotNil(suite.readMessage(first))
	suite.NotNil(suite.readMessage(second))

	suite.hub.unregisterClient(first)
	suite.Equal(1, suite.hub.GetOnlineCount())

	suite.hub.PublishMatch(match)
	suite.NotNil(suite.readMessage(second))
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}
