package materialize

import (
	"fmt"
	"strings"
)

// seeMoreSelectors is the prioritized list of truncation controls, most
// specific first.
var seeMoreSelectors = []string{
	".inline-show-more-text__button",
	".feed-shared-inline-show-more-text__see-more",
	".feed-shared-text-view__see-more",
	".see-more",
	"span.lt-line-clamp__more",
}

const documentRoot = "document"

// containerRoot scopes expansion to one container matched by a selector.
func containerRoot(selector string, index int) string {
	return fmt.Sprintf("document.querySelectorAll(%q)[%d]", selector, index)
}

// expandScript builds the injected expansion routine. It clicks every
// visible truncation control (direct click, then parent as the indirect
// fallback), then scans all visible elements for truncation-indicator text
// fragments and clicks those too. Failures are swallowed in-page; the script
// returns the number of activations that succeeded.
func expandScript(rootExpr string) string {
	quoted := make([]string, len(seeMoreSelectors))
	for i, sel := range seeMoreSelectors {
		quoted[i] = fmt.Sprintf("%q", sel)
	}

	return fmt.Sprintf(`(() => {
	const root = %s;
	if (!root || !root.querySelectorAll) return 0;
	const visible = (el) => el.offsetWidth > 0 && el.offsetHeight > 0;
	const activate = (el) => {
		try { el.click(); return true; } catch (e) {}
		try { if (el.parentElement) { el.parentElement.click(); return true; } } catch (e) {}
		return false;
	};
	let clicked = 0;
	for (const sel of [%s]) {
		for (const el of root.querySelectorAll(sel)) {
			if (visible(el) && activate(el)) clicked++;
		}
	}
	for (const el of root.querySelectorAll('*')) {
		const text = el.textContent || '';
		if (!visible(el)) continue;
		if (text.includes('…more') || text.includes('...more') || text.toLowerCase().includes('see more')) {
			if (activate(el)) clicked++;
		}
	}
	return clicked;
})()`, rootExpr, strings.Join(quoted, ", "))
}
