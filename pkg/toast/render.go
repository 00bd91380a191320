package toast

import "github.com/vango-dev/toaster/pkg/dom"

// render builds the slot for rec. The slot is not yet attached.
func (n *Notifier) render(rec *record) {
	doc := n.c.doc

	li := doc.CreateElement("li")
	li.SetAttribute("data-toast-item", "true")
	li.SetAttribute("data-toast-id", rec.id.String())
	li.SetAttribute("data-toast-type", string(rec.kind))
	li.SetAttribute("data-toast-variant", string(rec.opts.variant))
	li.SetAttribute("data-expanded", "false")
	li.SetAttribute("data-mounted", "false")
	li.SetAttribute("data-visible", "true")
	li.SetAttribute("role", "status")
	li.SetAttribute("aria-atomic", "true")

	content := doc.CreateElement("div")
	content.SetAttribute("class", "toast-content")

	if rec.async {
		li.SetAttribute("data-promise", "true")
		inner := doc.CreateElement("div")
		inner.SetAttribute("data-promise-content", "")

		rec.icon = n.renderIcon(KindLoading)
		inner.AppendChild(rec.icon)

		rec.text = doc.CreateElement("p")
		rec.text.SetTextContent(rec.message)
		inner.AppendChild(rec.text)

		content.AppendChild(inner)
		li.AppendChild(content)
		rec.content = inner
	} else {
		if !rec.opts.hideIcon {
			rec.icon = n.renderIcon(rec.kind)
			li.AppendChild(rec.icon)
		}
		if rec.opts.title != "" {
			title := doc.CreateElement("div")
			title.SetAttribute("data-toast-title", "")
			title.SetTextContent(rec.opts.title)
			content.AppendChild(title)
		}
		desc := doc.CreateElement("div")
		desc.SetAttribute("data-toast-description", "")
		desc.SetTextContent(rec.message)
		content.AppendChild(desc)
		li.AppendChild(content)
		rec.content = content
	}

	if *rec.opts.dismissable {
		li.AppendChild(n.renderDismiss(rec.id))
	}
	rec.slot = li
}

func (n *Notifier) renderIcon(kind Kind) dom.Element {
	icon := n.c.doc.CreateElement("span")
	icon.SetAttribute("data-set-icon", "")
	icon.SetAttribute("data-icon-type", iconType(kind))
	icon.SetAttribute("aria-hidden", "true")
	if markup := n.icons(kind); markup != "" {
		icon.SetInnerHTML(markup)
	}
	return icon
}

func (n *Notifier) renderDismiss(id ID) dom.Element {
	btn := n.c.doc.CreateElement("button")
	btn.SetAttribute("data-dismiss-btn", "")
	btn.SetAttribute("type", "button")
	btn.SetAttribute("aria-label", "Dismiss notification")
	btn.SetInnerHTML(DismissIcon)
	btn.AddEventListener("click", func() {
		n.Dismiss(id)
	})
	return btn
}

// settle swaps the loading icon and text of a promise slot for the outcome.
// Callers hold c.mu and have checked liveness.
func (n *Notifier) settle(rec *record) {
	rec.slot.SetAttribute("data-toast-type", string(rec.kind))
	rec.slot.SetAttribute("data-promise", "settled")

	icon := n.renderIcon(rec.kind)
	rec.content.ReplaceChild(icon, rec.icon)
	rec.icon = icon
	rec.text.SetTextContent(rec.message)
}
