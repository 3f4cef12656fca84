// 외부 Azure DevOps Boards API와 통신하는 클라이언트 정의
// 워크아이템 생성 / 열린 워크아이템 검색(WIQL) / 종료 처리를 담당
//
// 환경변수:
//   - ADO_ORG: Azure DevOps 조직명
//   - ADO_PROJECT: 프로젝트명
//   - ADO_PAT: Personal Access Token (Basic 인증, 사용자명 없이 ":PAT")
//   - ADO_WORKITEM_TYPE: 생성할 워크아이템 타입 (기본 Bug)

package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swfactory/alert-bridge/internal/config"
)

const apiVersion = "7.1"

// BoardsClient 구조체 정의
type BoardsClient struct {
	baseURL      string
	pat          string
	workItemType string
	configured   bool
	httpClient   *http.Client
}

// patchOp - json-patch 연산 (워크아이템 필드 설정용)
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// wiqlRequest - WIQL 쿼리 요청 본문
type wiqlRequest struct {
	Query string `json:"query"`
}

// wiqlResponse - WIQL 쿼리 응답 (매칭된 워크아이템 참조 목록)
type wiqlResponse struct {
	WorkItems []workItemRef `json:"workItems"`
}

type workItemRef struct {
	ID int `json:"id"`
}

// workItemResponse - 워크아이템 생성/수정 응답
type workItemResponse struct {
	ID int `json:"id"`
}

// BoardsClient 객체 생성
func NewBoardsClient(cfg config.BoardsConfig) *BoardsClient {
	return &BoardsClient{
		baseURL:      fmt.Sprintf("https://dev.azure.com/%s/%s", cfg.Organization, cfg.Project),
		pat:          cfg.PAT,
		workItemType: cfg.WorkItemType,
		configured:   cfg.Organization != "" && cfg.Project != "" && cfg.PAT != "",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// 조직/프로젝트/PAT가 모두 설정되어 있는지 체크
func (c *BoardsClient) IsConfigured() bool {
	return c.configured
}

// CreateWorkItem - 워크아이템 생성 후 ID 반환
func (c *BoardsClient) CreateWorkItem(ctx context.Context, title, description string) (int, error) {
	ops := []patchOp{
		{Op: "add", Path: "/fields/System.Title", Value: title},
		{Op: "add", Path: "/fields/System.Description", Value: description},
	}

	endpoint := fmt.Sprintf("%s/_apis/wit/workitems/$%s?api-version=%s",
		c.baseURL, url.PathEscape(c.workItemType), apiVersion)

	var created workItemResponse
	if err := c.do(ctx, http.MethodPost, endpoint, "application/json-patch+json", ops, &created); err != nil {
		return 0, fmt.Errorf("failed to create work item: %w", err)
	}
	return created.ID, nil
}

// SearchOpenWorkItems - 제목에 text를 포함하는 열린(Closed 아님) 워크아이템 ID 목록 조회
// 매칭 0건은 정상 결과 (빈 슬라이스 반환)
func (c *BoardsClient) SearchOpenWorkItems(ctx context.Context, text string) ([]int, error) {
	query := wiqlRequest{
		Query: fmt.Sprintf("Select [System.Id] From WorkItems Where [System.Title] Contains '%s' And [System.State] <> 'Closed'",
			strings.ReplaceAll(text, "'", "''")),
	}

	endpoint := fmt.Sprintf("%s/_apis/wit/wiql?api-version=%s", c.baseURL, apiVersion)

	var result wiqlResponse
	if err := c.do(ctx, http.MethodPost, endpoint, "application/json", query, &result); err != nil {
		return nil, fmt.Errorf("failed to search work items: %w", err)
	}

	ids := make([]int, 0, len(result.WorkItems))
	for _, item := range result.WorkItems {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

// CloseWorkItem - 워크아이템을 Closed 상태로 전환 (Reason=Resolved)
func (c *BoardsClient) CloseWorkItem(ctx context.Context, id int) error {
	ops := []patchOp{
		{Op: "add", Path: "/fields/System.State", Value: "Closed"},
		{Op: "add", Path: "/fields/System.Reason", Value: "Resolved"},
	}

	endpoint := fmt.Sprintf("%s/_apis/wit/workitems/%d?api-version=%s", c.baseURL, id, apiVersion)

	if err := c.do(ctx, http.MethodPatch, endpoint, "application/json-patch+json", ops, nil); err != nil {
		return fmt.Errorf("failed to close work item %d: %w", id, err)
	}
	return nil
}

// do - Boards API 호출 공통 처리 (인증 헤더, 에러 체크, 응답 파싱)
func (c *BoardsClient) do(ctx context.Context, method, endpoint, contentType string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(":"+c.pat)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("boards API error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
