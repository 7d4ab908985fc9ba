package extraction

import (
	"fmt"
	"strings"
	"time"
)

const systemPrompt = "あなたはイベント解析 AI です。"

const promptTemplate = `あなたはメールの内容を解析し、イベント情報を抽出する AI アシスタントです。

以下のメールの内容からイベント情報を抽出してください：
%s

ルール：
- もしメールがイベントと無関係なら、"%s" とだけ出力してください。
- メールにある時間は日本標準時 (JST) です。つまりZ+9です。
- 終了時間が明示されていない場合、開始時間の一時間後としてください。
- 年が書かれていない場合、今日の日付（%s）に最も近い未来の年を使ってください。
- オンライン会議のリンクとパスコードは、イベント専用の欄に記載されている場合のみ抽出してください。
- イベントの場合、次の JSON フォーマットのみで出力してください：
  {
    "title": "イベント名",
    "start_time": "YYYY-MM-DD HH:MM",
    "end_time": "YYYY-MM-DD HH:MM",
    "location": "イベントの場所",
    "description": "イベントの説明",
    "online link": "オンライン会議のリンク（ある場合のみ）",
    "online password": "オンライン会議のパスコード（ある場合のみ）"
  }
`

// BuildPrompt renders the extraction prompt for one email. The current
// date is embedded so the service can resolve omitted years to the
// nearest future year.
func BuildPrompt(in Input, now time.Time, sentinel string) string {
	var content strings.Builder
	if in.Subject != "" {
		fmt.Fprintf(&content, "件名: %s\n", in.Subject)
	}
	if in.Sender != "" {
		fmt.Fprintf(&content, "送信者: %s\n", in.Sender)
	}

	body := in.Body
	if body == "" {
		// A message with no extractable plain text still has the
		// provider's preview snippet.
		body = in.Snippet
	}
	fmt.Fprintf(&content, "本文:\n%s", body)

	return fmt.Sprintf(promptTemplate, content.String(), sentinel, now.Format("2006-01-02"))
}
