package repo

import "strings"

// likeEscaper 转义 LIKE 通配符；'!' 作为 ESCAPE 字符在 postgres / mysql 下写法一致
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern 小写后包成 %...%，配合 "LIKE ? ESCAPE '!'" 使用
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
