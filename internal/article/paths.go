package article

// Path-segment sequences from the document root to each metadata
// element. These are data, not behavior: every accessor is a lookup of
// one or more of these paths plus local formatting.
var (
	pathJournalTitle = []string{"front", "journal-meta", "journal-title-group", "journal-title"}
	// Pre-2008 documents carry the journal title directly under
	// journal-meta.
	pathJournalTitleOld = []string{"front", "journal-meta", "journal-title"}

	pathArticleTitle = []string{"front", "article-meta", "title-group", "article-title"}
	pathAbstract     = []string{"front", "article-meta", "abstract"}
	pathPubDate      = []string{"front", "article-meta", "pub-date"}
	pathHistoryDate  = []string{"front", "article-meta", "history", "date"}
	pathCounts       = []string{"front", "article-meta", "counts"}
	pathSubjGroup    = []string{"front", "article-meta", "article-categories", "subj-group"}
	pathLicense      = []string{"front", "article-meta", "permissions", "license"}
	pathContribGroup = []string{"front", "article-meta", "contrib-group"}
	pathAuthorNotes  = []string{"front", "article-meta", "author-notes"}
	pathAffiliation  = []string{"front", "article-meta", "aff"}
	pathRelated      = []string{"front", "article-meta", "related-article"}
	pathCustomMeta   = []string{"front", "article-meta", "custom-meta-group", "custom-meta"}
	pathBody         = []string{"body"}
)
