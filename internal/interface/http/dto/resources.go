package dto

// DeviceRequest HTTP设备请求
// 部门和类型按标题引用已有字典项
type DeviceRequest struct {
	InvNum     string `json:"inv_num" binding:"required,max=30" example:"INV-0001"`
	Title      string `json:"title" binding:"required,max=50" example:"Dell OptiPlex 3080"`
	Department string `json:"department" binding:"required" example:"Бухгалтерия"`
	Type       string `json:"type" binding:"required" example:"Системный блок"`
}

// PositionRequest HTTP库存位置请求
type PositionRequest struct {
	Title    string `json:"title" binding:"required,max=100" example:"Кабель HDMI"`
	Quantity int    `json:"quantity" binding:"min=0" example:"10"`
}

// ExpenditureRequest HTTP消耗请求(库存位置按名称引用)
type ExpenditureRequest struct {
	Position string `json:"position" binding:"required" example:"Кабель HDMI"`
	Quantity int    `json:"quantity" binding:"min=0" example:"2"`
}

// EntryRequest HTTP字典项请求
// number只对优先级有意义
type EntryRequest struct {
	Title  string `json:"title" binding:"required,max=200" example:"Ремонт"`
	Number uint   `json:"number" example:"1"`
}
