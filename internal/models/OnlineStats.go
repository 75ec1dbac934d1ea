package models

type OnlineStats struct {
	Online1m   int   `json:"online_1m"`
	Online5m   int   `json:"online_5m"`
	Online15m  int   `json:"online_15m"`
	ServerTime int64 `json:"server_time"`
}
