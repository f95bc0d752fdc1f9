package multiedit

import (
	"fmt"
	"strings"

	"github.com/doeshing/vibe-go/internal/domain"
)

const systemPrompt = `You are a code editing assistant. Reply with unified diffs only.
Rules:
- Start each changed file with: diff --git a/<path> b/<path>
- Use the paths exactly as listed under "Files to edit".
- Start each hunk with: @@ -<start>,<count> +<start>,<count> @@
- Prefix unchanged lines with a space, removed lines with "-" and added lines with "+".
- Keep every line of a hunk in file order, with up to 3 unchanged lines around each change.
- The old line count must cover exactly the unchanged and removed lines.
- No explanations and no markdown fences.`

// buildMessages assembles the system instruction and the user prompt that
// lists every scanned file.
func buildMessages(files []domain.SourceFile, request string) []domain.Message {
	var b strings.Builder
	b.WriteString("Files to edit:\n\n")
	for i, file := range files {
		fmt.Fprintf(&b, "File %d: %s\n```\n%s", i+1, file.Path, file.Content)
		if !strings.HasSuffix(file.Content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}
	b.WriteString("Requested changes: ")
	b.WriteString(request)

	return []domain.Message{
		domain.TextMessage(domain.RoleSystem, systemPrompt),
		domain.TextMessage(domain.RoleUser, b.String()),
	}
}
