package redis

import "fmt"

// ProductListVersionKey 列表缓存版本号；失效时 INCR，旧版本 key 自然过期。
func ProductListVersionKey() string {
	return "nuvyra:products:list:version"
}

// ProductListKey 某个版本下某个查询指纹对应的列表缓存。
func ProductListKey(version int64, fingerprint string) string {
	return fmt.Sprintf("nuvyra:products:list:v%d:%s", version, fingerprint)
}

// ProductDetailVersionKey 单个商品详情的版本号；写库后 INCR。
func ProductDetailVersionKey(id string) string {
	return fmt.Sprintf("nuvyra:product:%s:version", id)
}

// ProductDetailKey 某个版本下的商品详情缓存。
func ProductDetailKey(id string, version int64) string {
	return fmt.Sprintf("nuvyra:product:%s:v%d", id, version)
}

// RevokedSessionKey 标记已登出的会话 jti。
func RevokedSessionKey(jti string) string {
	return fmt.Sprintf("nuvyra:session:revoked:%s", jti)
}

// RateLimitKey 登录等接口按 scope + IP 限流。
func RateLimitKey(scope, clientIP string) string {
	return fmt.Sprintf("nuvyra:rate_limit:%s:ip:%s", scope, clientIP)
}
