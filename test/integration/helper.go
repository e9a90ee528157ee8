// Package integration 针对运行中服务的端到端测试
//
// 运行方式:
//
//	helpdesk user create --username admin --password secret123
//	helpdesk serve
//	HELPDESK_IT_USERNAME=admin HELPDESK_IT_PASSWORD=secret123 go test -v ./test/integration/...
//
// 服务不可达或未提供账号时全部跳过
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// BaseURL API基础URL(HELPDESK_IT_BASE_URL可覆盖)
var BaseURL = envOr("HELPDESK_IT_BASE_URL", "http://localhost:8080/api/v1")

// Response 统一响应结构
type Response struct {
	Status  int             `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// RequireServer 服务不可达或未配置账号时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	if os.Getenv("HELPDESK_IT_USERNAME") == "" || os.Getenv("HELPDESK_IT_PASSWORD") == "" {
		t.Skip("未设置HELPDESK_IT_USERNAME/HELPDESK_IT_PASSWORD,跳过集成测试")
	}
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(BaseURL + "/priorities")
	if err != nil {
		t.Skipf("服务不可达(%s),跳过集成测试: %v", BaseURL, err)
	}
	_ = resp.Body.Close()
}

// Do 发送JSON请求并解析统一响应;204时Data为空
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	}
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	return Do(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return Do(t, http.MethodGet, url, nil, token)
}

// Login 使用环境变量中的账号登录
func Login(t *testing.T) LoginData {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/auth/login", map[string]string{
		"username": os.Getenv("HELPDESK_IT_USERNAME"),
		"password": os.Getenv("HELPDESK_IT_PASSWORD"),
	}, "")
	require.Equal(t, 0, resp.Code, "登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return data
}

// Unique 生成唯一的标题/编号,避免重复运行时冲突
func Unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// CreateEntry 创建字典项并返回标题
func CreateEntry(t *testing.T, token, path string, body map[string]interface{}) string {
	t.Helper()
	resp := PostJSON(t, BaseURL+path, body, token)
	require.Equal(t, http.StatusCreated, resp.Status, "创建%s失败: %s", path, resp.Message)
	return body["title"].(string)
}
