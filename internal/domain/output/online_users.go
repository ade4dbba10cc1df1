package output

// OnlineUserInfo describes a user currently registered in the presence map
type OnlineUserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
