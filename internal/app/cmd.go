package app

// Command は単一バイナリの起動モードを表す。
// APIサーバーと可用性スナップショットワーカーは同じイメージから
// サブコマンドだけ変えて起動される。
type Command string

const (
	// CommandServe は通報・認証・稼働照会APIサーバーとして起動する。
	CommandServe Command = "serve"
	// CommandWorker はスナップショット・クリーンアップワーカーとして起動する。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションのみ実行して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は稼働中プロセスのヘルスチェックを行う。
	// シェルを持たないdistrolessイメージのHEALTHCHECK用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand は先頭の引数をサブコマンドとして解釈する。
// 引数なし・未知のサブコマンドはいずれもserve扱いになる。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "worker":
		return CommandWorker
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
