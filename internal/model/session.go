package model

import "time"

// RoleAdmin はこのシステムで唯一のロール。
const RoleAdmin = "admin"

// Session は教員のログインセッションを表す。
// トークンはプロセス存続中のみ有効で、有効期限は持たない。
type Session struct {
	Token     string
	Username  string
	Role      string
	CreatedAt time.Time
}
