package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type positionData struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

type ticketData struct {
	ID     uint `json:"id"`
	Device struct {
		InvNum string `json:"inv_num"`
	} `json:"device"`
	WorkDone     []string `json:"work_done"`
	Priority     *string  `json:"priority"`
	Expenditures []struct {
		Position string `json:"position"`
		Quantity int    `json:"quantity"`
	} `json:"expenditures"`
}

// TestTicketLifecycle 创建嵌套工单 → 库存扣减 → 删除工单 → 库存归还
func TestTicketLifecycle(t *testing.T) {
	RequireServer(t)
	token := Login(t).AccessToken

	// 1. 基础数据
	dep := CreateEntry(t, token, "/departments", map[string]interface{}{"title": Unique("dep")})
	typ := CreateEntry(t, token, "/devtypes", map[string]interface{}{"title": Unique("type")})
	cat := CreateEntry(t, token, "/categories", map[string]interface{}{"title": Unique("cat")})
	prio := CreateEntry(t, token, "/priorities", map[string]interface{}{"title": Unique("prio"), "number": 1})
	work := CreateEntry(t, token, "/worktypes", map[string]interface{}{"title": Unique("work")})

	invNum := Unique("INV")
	resp := PostJSON(t, BaseURL+"/devices", map[string]string{
		"inv_num": invNum, "title": "Desktop", "department": dep, "type": typ,
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	posTitle := Unique("cable")
	resp = PostJSON(t, BaseURL+"/positions", map[string]interface{}{"title": posTitle, "quantity": 5}, token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	var pos positionData
	require.NoError(t, json.Unmarshal(resp.Data, &pos))

	// 2. 创建工单(消耗2件)
	resp = PostJSON(t, BaseURL+"/tickets", map[string]interface{}{
		"created":      "2022-02-20",
		"description":  "integration",
		"device":       map[string]string{"inv_num": invNum},
		"owner":        envOr("HELPDESK_IT_USERNAME", ""),
		"priority":     prio,
		"category":     cat,
		"work_done":    []string{work},
		"expenditures": []map[string]interface{}{{"position": posTitle, "quantity": 2}},
	}, token)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	var tk ticketData
	require.NoError(t, json.Unmarshal(resp.Data, &tk))
	assert.Equal(t, invNum, tk.Device.InvNum)
	assert.Equal(t, []string{work}, tk.WorkDone)
	require.NotNil(t, tk.Priority)
	assert.Equal(t, prio, *tk.Priority)
	require.Len(t, tk.Expenditures, 1)

	positionQuantity := func() int {
		resp := GetJSON(t, fmt.Sprintf("%s/positions/%d", BaseURL, pos.ID), "")
		var p positionData
		require.NoError(t, json.Unmarshal(resp.Data, &p))
		return p.Quantity
	}
	assert.Equal(t, 3, positionQuantity())

	// 3. 库存不足
	resp = PostJSON(t, BaseURL+"/expenditures", map[string]interface{}{"position": posTitle, "quantity": 10}, token)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, 40001, resp.Code)
	assert.Equal(t, 3, positionQuantity())

	// 4. 删除工单归还库存
	resp = Do(t, http.MethodDelete, fmt.Sprintf("%s/tickets/%d", BaseURL, tk.ID), nil, token)
	require.Equal(t, http.StatusNoContent, resp.Status)
	assert.Equal(t, 5, positionQuantity())
}
