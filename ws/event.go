// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı: HTTP isteği → Service → DB kayıt → Hub.BroadcastToAll →
// her client'ın WritePump'ı event'i WebSocket'e yazar.
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Seq: her outbound event'e verilen artan sayı — frontend eksik event
// tespit etmek için takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client periyodik gönderir — "hâlâ bağlıyım" sinyali
)

// Server → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt
	OpPresence     = "presence_update"
	OpServerCreate = "server_create" // Dizine yeni sunucu eklendi
	OpMemberJoin   = "member_join"   // Bir sunucuya üye katıldı
	OpMemberLeave  = "member_leave"  // Bir sunucudan üye ayrıldı
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
type ReadyData struct {
	OnlineUserIDs []int64 `json:"online_user_ids"`
}

// PresenceData, bir kullanıcının online durumu değiştiğinde broadcast edilen payload.
type PresenceData struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

// MembershipData, member_join / member_leave event'lerinin payload'ı.
type MembershipData struct {
	ServerID int64  `json:"server_id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
