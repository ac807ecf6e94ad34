package markup

// Built-in format names. Each feature surface (forum board, live stream,
// social feed) reads and writes tokens in one or more of these formats.
const (
	FormatComment   = "comment"
	FormatDanmaku   = "danmaku"
	FormatGift      = "gift"
	FormatHotSearch = "hotsearch"
	FormatViewers   = "viewers"
	FormatCaption   = "caption"
	FormatThread    = "thread"
	FormatReply     = "reply"
	FormatSubReply  = "subreply"
)

// Field names shared across built-in formats.
const (
	FieldAuthor    = "author"
	FieldContent   = "content"
	FieldKind      = "kind"
	FieldThreadID  = "thread_id"
	FieldReplyID   = "reply_id"
	FieldTitle     = "title"
	FieldParentRef = "parent_ref"
	FieldRank      = "rank"
	FieldCount     = "count"
)

// builtinFormats is the fixed token table registered by NewRegistry.
// Field captures use [^|\]]* ("anything up to the next delimiter"); the
// final field uses [^\]]* so its text may contain pipes. Tokens cannot
// escape | or ] inside a field; generators are prompted to avoid them.
var builtinFormats = []struct {
	name    string
	pattern string
	fields  []string
}{
	{
		// [评论|author|kind|content]
		name:    FormatComment,
		pattern: `\[评论\|([^|\]]*)\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldAuthor, FieldKind, FieldContent},
	},
	{
		// [弹幕|author|content]
		name:    FormatDanmaku,
		pattern: `\[弹幕\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldAuthor, FieldContent},
	},
	{
		// [礼物|author|kind|count]
		name:    FormatGift,
		pattern: `\[礼物\|([^|\]]*)\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldAuthor, FieldKind, FieldCount},
	},
	{
		// [热搜|rank|content]
		name:    FormatHotSearch,
		pattern: `\[热搜\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldRank, FieldContent},
	},
	{
		// [人气|count]
		name:    FormatViewers,
		pattern: `\[人气\|([^\]]*)\]`,
		fields:  []string{FieldCount},
	},
	{
		// [字幕|content]
		name:    FormatCaption,
		pattern: `\[字幕\|([^\]]*)\]`,
		fields:  []string{FieldContent},
	},
	{
		// [主题|thread_id|author|title|content]
		name:    FormatThread,
		pattern: `\[主题\|([^|\]]*)\|([^|\]]*)\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldThreadID, FieldAuthor, FieldTitle, FieldContent},
	},
	{
		// [回复|thread_id|reply_id|author|content]
		name:    FormatReply,
		pattern: `\[回复\|([^|\]]*)\|([^|\]]*)\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldThreadID, FieldReplyID, FieldAuthor, FieldContent},
	},
	{
		// [楼中楼|thread_id|parent_ref|author|content]
		name:    FormatSubReply,
		pattern: `\[楼中楼\|([^|\]]*)\|([^|\]]*)\|([^|\]]*)\|([^\]]*)\]`,
		fields:  []string{FieldThreadID, FieldParentRef, FieldAuthor, FieldContent},
	},
}
