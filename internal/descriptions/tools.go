package descriptions

import (
	"sort"
)

// Tool names
const (
	ToolExtractComments = "proof_extract_comments"
	ToolParseFilename   = "proof_parse_filename"
	ToolClassifyComment = "proof_classify_comment"
	ToolSearchDirectory = "pdf_search_directory"
	ToolValidateFile    = "pdf_validate_file"
	ToolServerInfo      = "proof_server_info"
)

// Tool descriptions with practical examples and use cases

const (
	ExtractCommentsDescription = `Extract reviewer comments from annotated PDF proofs into a comments.xlsx worksheet.

**When to use:** A batch of marked-up proofs has come back from review and the comments need to be tracked in a spreadsheet.

**Why it's useful:** Reads every sticky note on every page, derives week, page, proof stage and zone from the filename, classifies each comment by error category and drops repeated comments.

**Examples:**
• Weekly batch: "Extract comments from WK12_24_Deli_PR1.pdf and WK12_24_Deli_PR2.pdf"
• Whole folder: "Extract comments from every proof in the configured directory matching 'WK12'"
• Back-dated upload: "Extract comments with upload date 01.03.2024"

**Common workflows:**
1. Review tracking: pdf_search_directory → proof_extract_comments → open comments.xlsx
2. Troubleshooting: pdf_validate_file → proof_extract_comments

**Best practices:** Pass paths in the order the rows should appear; the upload date uses DD.MM.YYYY and defaults to today.`

	ParseFilenameDescription = `Derive week, page, proof stage and zone from a proof filename.

**When to use:** Check how a file will be labelled before running an extraction.

**Examples:**
• "What metadata does WK3_24_ProductB_CPR_B_QC.pdf produce?"

**Best practices:** Filenames follow WK<week>_24_<page>[_<stage>].pdf; anything unrecognized is reported as Unknown.`

	ClassifyCommentDescription = `Classify a single reviewer comment the way proof_extract_comments does.

**When to use:** Check which error category and column a comment text will land in.

**Examples:**
• "Classify 'Wrong price on the banner'" → Price_Point, remarks
• "Classify 'GD: replaced hero image'" → Image_Usage, correction/revision

**Best practices:** Comments starting with GD: are treated as revision notes rather than remarks.`

	SearchDirectoryDescription = `Discover PDF proofs in a directory with optional fuzzy filename search.

**When to use:** Find the proofs available for extraction, or preview which files a directory extraction would pick.

**Examples:**
• "List all proofs in the default directory"
• "Find proofs for week 12" (query: "WK12")
• "Find CPR proofs for the deli page" (query: "deli cpr")

**Best practices:** Results are sorted by path, which is the order a directory extraction uses.`

	ValidateFileDescription = `Verify that a file is a readable PDF before extracting comments from it.

**When to use:** An extraction failed, or a file came from an unknown source.

**Examples:**
• "Validate WK12_24_Deli_PR1.pdf"

**Best practices:** A single unreadable file aborts the whole extraction, so validate suspicious files first.`

	ServerInfoDescription = `Get server configuration, available tools, and the proofs in the default directory.

**When to use:** Start of a session, to learn the banner, decoder and directory in use.

**Best practices:** Run first to discover available files and settings.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolExtractComments: ExtractCommentsDescription,
	ToolParseFilename:   ParseFilenameDescription,
	ToolClassifyComment: ClassifyCommentDescription,
	ToolSearchDirectory: SearchDirectoryDescription,
	ToolValidateFile:    ValidateFileDescription,
	ToolServerInfo:      ServerInfoDescription,
}

// ToolParameters summarizes each tool's arguments
var ToolParameters = map[string]string{
	ToolExtractComments: "paths (optional): comma-separated PDF paths, directory (optional), " +
		"query (optional), upload_date (optional, DD.MM.YYYY), output (optional)",
	ToolParseFilename:   "name (required): proof filename",
	ToolClassifyComment: "contents (required): comment text",
	ToolSearchDirectory: "directory (optional): uses default if empty, query (optional)",
	ToolValidateFile:    "path (required): PDF path",
	ToolServerInfo:      "none",
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the names of all tools, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
