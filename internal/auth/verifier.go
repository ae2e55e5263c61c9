package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
)

// Identity 第三方校验通过后的身份信息
type Identity struct {
	Subject   string // 提供方侧的稳定用户ID
	Email     string
	Name      string
	PhotoURL  string
	Provider  string
}

// Verifier 登录令牌校验器。入参是客户端拿到的ID token
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier 通过Google tokeninfo端点校验ID token
type GoogleVerifier struct {
	tokenInfoURL string
	client       *http.Client
}

// NewGoogleVerifier 创建Google校验器。endpoint为空表示未配置，Verify会返回服务不可用
func NewGoogleVerifier(tokenInfoURL string) *GoogleVerifier {
	return &GoogleVerifier{
		tokenInfoURL: tokenInfoURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

// tokeninfo响应里我们关心的字段
type googleTokenInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	ErrorDesc     string `json:"error_description"`
}

// Verify 校验Google ID token并返回身份信息
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if v.tokenInfoURL == "" {
		return nil, errors.New(errors.ErrUnavailable, "谷歌登录未配置")
	}
	if idToken == "" {
		return nil, errors.New(errors.ErrTokenInvalid, "缺少ID token")
	}

	endpoint := fmt.Sprintf("%s?id_token=%s", v.tokenInfoURL, url.QueryEscape(idToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAuthentication, "构造校验请求失败")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAuthentication, "请求谷歌校验端点失败")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrAuthentication, "读取校验响应失败")
	}

	var info googleTokenInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, errors.Wrap(err, errors.ErrAuthentication, "解析校验响应失败")
	}

	if resp.StatusCode != http.StatusOK {
		logger.Warn(fmt.Sprintf("谷歌令牌校验被拒绝: status=%d desc=%s", resp.StatusCode, info.ErrorDesc))
		return nil, errors.New(errors.ErrTokenInvalid, "谷歌令牌校验失败")
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New(errors.ErrTokenInvalid, "谷歌令牌缺少必要字段")
	}
	if info.EmailVerified != "true" {
		return nil, errors.New(errors.ErrAuthentication, "邮箱未经验证")
	}

	return &Identity{
		Subject:  info.Sub,
		Email:    info.Email,
		Name:     info.Name,
		PhotoURL: info.Picture,
		Provider: "google",
	}, nil
}
