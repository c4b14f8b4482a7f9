package session

// Storageはキー単位の永続ストア。
// 未設定のキーは空文字を返す（エラーにしない）。
type Storage interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Delete(key string) error
}
