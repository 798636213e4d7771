package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weband-backend/config"
)

// ErrNoEmail means the Kakao account did not consent to sharing its
// email, which this system uses as the account key.
var ErrNoEmail = errors.New("auth: kakao account has no email consent")

// KakaoProfile is the subset of the Kakao user-info response the
// system keeps.
type KakaoProfile struct {
	KakaoID    int64
	Email      string
	Nickname   string
	ProfileImg string
}

// KakaoClient exchanges a one-time authorization code for a user
// profile against the configured Kakao endpoints.
type KakaoClient struct {
	cfg    config.KakaoConfig
	client *http.Client
}

// NewKakaoClient builds an OAuth client for the configured endpoints.
func NewKakaoClient(cfg config.KakaoConfig) *KakaoClient {
	return &KakaoClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthRedirectURL is where the browser is sent to start the login.
func (k *KakaoClient) AuthRedirectURL() string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", k.cfg.ClientID)
	q.Set("redirect_uri", k.cfg.RedirectURI)
	return k.cfg.AuthURL + "?" + q.Encode()
}

type kakaoTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type kakaoUserResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname     string `json:"nickname"`
		ProfileImage string `json:"profile_image"`
	} `json:"properties"`
}

// Exchange trades the authorization code for a Kakao access token and
// fetches the user's profile with it. A nickname is synthesized from
// the email's local part when Kakao does not supply one.
func (k *KakaoClient) Exchange(ctx context.Context, code string) (KakaoProfile, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", k.cfg.ClientID)
	form.Set("redirect_uri", k.cfg.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return KakaoProfile{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	var token kakaoTokenResponse
	if err := k.do(req, &token); err != nil {
		return KakaoProfile{}, fmt.Errorf("kakao token exchange: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, k.cfg.UserInfoURL, nil)
	if err != nil {
		return KakaoProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	var user kakaoUserResponse
	if err := k.do(req, &user); err != nil {
		return KakaoProfile{}, fmt.Errorf("kakao user info: %w", err)
	}

	email := user.KakaoAccount.Email
	if email == "" {
		return KakaoProfile{}, ErrNoEmail
	}
	nickname := user.Properties.Nickname
	if nickname == "" {
		nickname = strings.SplitN(email, "@", 2)[0]
	}

	return KakaoProfile{
		KakaoID:    user.ID,
		Email:      email,
		Nickname:   nickname,
		ProfileImg: user.Properties.ProfileImage,
	}, nil
}

func (k *KakaoClient) do(req *http.Request, out any) error {
	resp, err := k.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
