package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Pipeline messages (info)
		"Reading %s":                           "%s を読み込み中",
		"Decoding %s (%s), %d access units":    "%s をデコード中 (%s)、アクセスユニット %d 個",
		"Decoded %d frames":                    "%d フレームをデコードしました",
		"Rendering contact sheet":              "コンタクトシートを作成中",
		"Decode completed successfully":        "デコードが正常に完了しました",
		"Composing %d comparison frames":       "%d 個の比較フレームを合成中",

		// Errors
		"Failed to read input: %s":             "入力の読み込みに失敗しました: %s",
		"Failed to decode: %s":                 "デコードに失敗しました: %s",
		"Failed to render contact sheet: %s":   "コンタクトシートの作成に失敗しました: %s",

		// Warnings
		"%s library is not available":          "%s ライブラリが利用できません",
		"no library registered for codec %s":   "コーデック %s のライブラリが登録されていません",
	})
}
