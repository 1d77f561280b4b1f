// File: internal/snapshot/script.go
package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/xkilldash9x/pagelens-cli/api/schemas"
)

// RenderScript produces the traversal script shipped to the execution
// channel. The full variant carries the complete engine; the reduced variant
// is the resilience fallback that only reads tag, rect and a path selector.
// Both are IIFEs that return a JSON string so the channel payload is always a
// single serializable value.
func RenderScript(opts schemas.SnapshotOptions, variant schemas.ScriptVariant) string {
	opts = opts.Normalize()
	if variant == schemas.VariantReduced {
		return fmt.Sprintf(reducedScript, jsonEncode(opts))
	}
	return fmt.Sprintf(fullScript, jsonEncode(opts))
}

// jsonEncode safely embeds a value into generated JavaScript.
func jsonEncode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// fullScript mirrors the Go engine: one upfront indexing pass for O(1)
// selector uniqueness, the accessibility cascade, state extraction, and an
// iterative outline or dom-lite walk. Per element failures are swallowed so
// one poisoned getter cannot abort the whole traversal.
const fullScript = `(function () {
    var OPTS = %s;
    var t0 = Date.now();
    try {
        var doc = document;
        var all = doc.getElementsByTagName('*');
        var idCount = {}, testIdCount = {}, dataTestCount = {}, classKeyCount = {};
        var labelFor = {};
        var i, el;

        function classKey(el) {
            if (!el.classList || el.classList.length === 0) return '';
            var cs = [];
            for (var k = 0; k < el.classList.length; k++) cs.push(el.classList[k]);
            cs.sort();
            return cs.join('.');
        }

        for (i = 0; i < all.length; i++) {
            el = all[i];
            try {
                if (el.id) idCount[el.id] = (idCount[el.id] || 0) + 1;
                var tid = el.getAttribute('data-testid');
                if (tid) testIdCount[tid] = (testIdCount[tid] || 0) + 1;
                var dt = el.getAttribute('data-test');
                if (dt) dataTestCount[dt] = (dataTestCount[dt] || 0) + 1;
                var ck = classKey(el);
                if (ck) classKeyCount[ck] = (classKeyCount[ck] || 0) + 1;
                if (el.tagName === 'LABEL') {
                    var forId = el.getAttribute('for');
                    if (forId && !labelFor[forId]) labelFor[forId] = el;
                }
            } catch (e) { }
        }
        var indexMs = Date.now() - t0;

        function esc(s) {
            return (window.CSS && CSS.escape) ? CSS.escape(s) : String(s).replace(/([^a-zA-Z0-9_-])/g, '\\$1');
        }

        function pathSelector(el) {
            var segs = [];
            var cur = el;
            while (cur && cur.nodeType === 1) {
                if (cur.id && idCount[cur.id] === 1) {
                    segs.unshift('#' + esc(cur.id));
                    break;
                }
                var tag = cur.tagName.toLowerCase();
                var parent = cur.parentElement;
                if (parent) {
                    var sameTag = 0, position = 0;
                    var sibs = parent.children;
                    for (var s = 0; s < sibs.length; s++) {
                        if (sibs[s].tagName === cur.tagName) sameTag++;
                        if (sibs[s] === cur) position = s + 1;
                    }
                    segs.unshift(sameTag > 1 ? tag + ':nth-child(' + position + ')' : tag);
                } else {
                    segs.unshift(tag);
                }
                cur = parent;
            }
            return segs.join(' > ');
        }

        function selectorFor(el) {
            if (el.id && idCount[el.id] === 1) return '#' + esc(el.id);
            var tid = el.getAttribute('data-testid');
            if (tid && testIdCount[tid] === 1) return '[data-testid="' + tid + '"]';
            var dt = el.getAttribute('data-test');
            if (dt && dataTestCount[dt] === 1) return '[data-test="' + dt + '"]';
            var ck = classKey(el);
            if (ck && classKeyCount[ck] === 1) {
                var parts = ck.split('.');
                var out = '';
                for (var c = 0; c < parts.length; c++) out += '.' + esc(parts[c]);
                return out;
            }
            return pathSelector(el);
        }

        var TAG_ROLES = {
            button: 'button', textarea: 'textbox', select: 'combobox',
            h1: 'heading', h2: 'heading', h3: 'heading', h4: 'heading', h5: 'heading', h6: 'heading',
            nav: 'navigation', main: 'main', article: 'article', section: 'region',
            header: 'banner', footer: 'contentinfo', img: 'img',
            table: 'table', thead: 'rowgroup', tbody: 'rowgroup', tfoot: 'rowgroup',
            tr: 'row', td: 'cell', th: 'columnheader',
            ul: 'list', ol: 'list', li: 'listitem', form: 'form', dialog: 'dialog'
        };
        var INPUT_ROLES = {
            checkbox: 'checkbox', radio: 'radio', range: 'slider', search: 'searchbox',
            number: 'spinbutton', file: 'button', submit: 'button', button: 'button',
            reset: 'button', image: 'button'
        };

        function roleFor(el) {
            var explicit = el.getAttribute('role');
            if (explicit) return explicit;
            var tag = el.tagName.toLowerCase();
            if (tag === 'a') return el.getAttribute('href') ? 'link' : 'generic';
            if (tag === 'input') {
                var t = (el.getAttribute('type') || 'text').toLowerCase();
                return INPUT_ROLES[t] || 'textbox';
            }
            return TAG_ROLES[tag] || 'generic';
        }

        function collapse(s) {
            var c = String(s).replace(/\s+/g, ' ').trim();
            if (c.length > 50) return c.substring(0, 47) + '...';
            return c;
        }

        function nameFor(el) {
            var v = el.getAttribute('aria-label');
            if (v && collapse(v)) return collapse(v);
            var refs = el.getAttribute('aria-labelledby');
            if (refs) {
                var parts = [];
                var ids = refs.split(/\s+/);
                for (var r = 0; r < ids.length; r++) {
                    var target = doc.getElementById(ids[r]);
                    if (target && target.textContent.trim()) parts.push(target.textContent.trim());
                }
                if (parts.length && collapse(parts.join(' '))) return collapse(parts.join(' '));
            }
            if (el.id && labelFor[el.id] && collapse(labelFor[el.id].textContent)) {
                return collapse(labelFor[el.id].textContent);
            }
            var p = el.parentElement;
            while (p) {
                if (p.tagName === 'LABEL') {
                    if (collapse(p.textContent)) return collapse(p.textContent);
                    break;
                }
                p = p.parentElement;
            }
            var attrs = ['title', 'placeholder', 'alt'];
            for (var a = 0; a < attrs.length; a++) {
                v = el.getAttribute(attrs[a]);
                if (v && collapse(v)) return collapse(v);
            }
            var type = (el.getAttribute('type') || '').toLowerCase();
            if (el.value !== undefined && el.value !== '' && type !== 'password') {
                if (collapse(el.value)) return collapse(el.value);
            }
            if (collapse(el.textContent)) return collapse(el.textContent);
            return el.tagName.toLowerCase();
        }

        function stateFor(el) {
            var st = {};
            var any = false;
            var tag = el.tagName.toLowerCase();
            if (el.isContentEditable || tag === 'input' || tag === 'textarea' || tag === 'select') {
                st.editable = true; any = true;
            }
            if (el.disabled !== undefined) { st.disabled = !!el.disabled; any = true; }
            if (el.value !== undefined) {
                var type = (el.getAttribute('type') || '').toLowerCase();
                if (type === 'password') {
                    st.value = el.value === '' ? '' : '***';
                } else {
                    st.value = String(el.value);
                }
                any = true;
            }
            if (el.checked !== undefined) { st.checked = !!el.checked; any = true; }
            if (el.selected !== undefined) { st.selected = !!el.selected; any = true; }
            var exp = el.getAttribute('aria-expanded');
            if (exp !== null) { st.expanded = exp === 'true'; any = true; }
            var style = window.getComputedStyle(el);
            if (style.display === 'none' || style.visibility === 'hidden') { st.hidden = true; any = true; }
            if (doc.activeElement === el) { st.focused = true; any = true; }
            return any ? st : null;
        }

        function isVisible(el) {
            if (el.offsetParent === null && style_of(el).position !== 'fixed') return false;
            var style = style_of(el);
            if (style.display === 'none' || style.visibility === 'hidden' || style.visibility === 'collapse') return false;
            if (parseFloat(style.opacity) <= 0) return false;
            var rect = el.getBoundingClientRect();
            if (rect.width <= 0 || rect.height <= 0) return false;
            return rect.left < window.innerWidth && rect.right > 0 &&
                rect.top < window.innerHeight && rect.bottom > 0;
        }
        function style_of(el) { return window.getComputedStyle(el); }

        var INTERACTIVE_TAGS = { BUTTON: true, INPUT: true, TEXTAREA: true, SELECT: true };
        var INTERACTIVE_ROLES = {
            button: true, link: true, checkbox: true, radio: true, textbox: true,
            searchbox: true, combobox: true, listbox: true, option: true,
            menuitem: true, menuitemcheckbox: true, menuitemradio: true,
            slider: true, spinbutton: true, 'switch': true, tab: true
        };

        function isInteractive(el) {
            if (INTERACTIVE_TAGS[el.tagName]) return true;
            if (el.tagName === 'A' && el.getAttribute('href')) return true;
            var role = el.getAttribute('role');
            if (role && INTERACTIVE_ROLES[role.toLowerCase()]) return true;
            if (el.hasAttribute('onclick')) return true;
            var ti = el.getAttribute('tabindex');
            if (ti !== null && ti.trim() !== '-1') return true;
            return false;
        }

        function rectOf(el) {
            var r = el.getBoundingClientRect();
            return {
                x: Math.round(r.left), y: Math.round(r.top),
                w: Math.max(0, Math.round(r.width)), h: Math.max(0, Math.round(r.height))
            };
        }

        var OPTIONAL = ['id', 'class', 'href', 'src', 'alt', 'title', 'type', 'placeholder', 'aria-label', 'role'];
        var OPTIONAL_KEYS = ['id', 'className', 'href', 'src', 'alt', 'title', 'type', 'placeholder', 'ariaLabel', 'ariaRole'];

        function buildNode(el, interactive) {
            var node = {
                role: roleFor(el),
                name: nameFor(el),
                selector: selectorFor(el),
                rect: rectOf(el),
                tagName: el.tagName.toLowerCase()
            };
            var st = stateFor(el);
            if (st) node.state = st;
            if (interactive) {
                for (var a = 0; a < OPTIONAL.length; a++) {
                    var v = el.getAttribute(OPTIONAL[a]);
                    if (v) node[OPTIONAL_KEYS[a]] = v;
                }
            }
            return node;
        }

        var nodes = [];
        var scanned = 0;
        var walkStart = Date.now();
        var body = doc.body;

        if (OPTS.mode === 'dom-lite') {
            var hasInteractive = typeof Map === 'function' ? new Map() : null;
            var post = [{ el: body, expanded: false }];
            while (post.length > 0) {
                var pf = post[post.length - 1];
                if (!pf.expanded) {
                    pf.expanded = true;
                    for (var c = 0; c < pf.el.children.length; c++) {
                        post.push({ el: pf.el.children[c], expanded: false });
                    }
                    continue;
                }
                post.pop();
                var has = false;
                for (var c2 = 0; c2 < pf.el.children.length; c2++) {
                    var child = pf.el.children[c2];
                    var childFlag = false;
                    try { childFlag = isInteractive(child) || (hasInteractive && hasInteractive.get(child)); } catch (e) { }
                    if (childFlag) { has = true; break; }
                }
                if (hasInteractive) hasInteractive.set(pf.el, has);
            }

            var stack = [{ el: body, level: 0, parentSel: '' }];
            while (stack.length > 0) {
                var f = stack.pop();
                scanned++;
                var interactive = false;
                try { interactive = isInteractive(f.el); } catch (e) { }
                var isRoot = f.el === body;
                if (!isRoot && !interactive && !(hasInteractive && hasInteractive.get(f.el))) continue;
                var emit = true;
                if (OPTS.visibleOnly && !isRoot) {
                    var vis = false;
                    try { vis = isVisible(f.el); } catch (e) { }
                    if (!vis) {
                        var inLayout = false;
                        try {
                            inLayout = (f.el.offsetParent !== null || style_of(f.el).position === 'fixed') &&
                                style_of(f.el).display !== 'none';
                        } catch (e) { }
                        if (!inLayout) continue;
                        emit = false;
                    }
                }
                var childParentSel = f.parentSel;
                var childLevel = f.level;
                if (emit) {
                    try {
                        var node = buildNode(f.el, interactive);
                        node.level = f.level;
                        if (f.parentSel) node.parent = f.parentSel;
                        nodes.push(node);
                        childParentSel = node.selector;
                        childLevel = f.level + 1;
                    } catch (e) { }
                }
                if (childLevel > OPTS.maxDepth) continue;
                for (var c3 = f.el.children.length - 1; c3 >= 0; c3--) {
                    stack.push({ el: f.el.children[c3], level: childLevel, parentSel: childParentSel });
                }
            }
        } else {
            var flat = [body];
            while (flat.length > 0) {
                var cur = flat.pop();
                scanned++;
                try {
                    if (isInteractive(cur) && (!OPTS.visibleOnly || isVisible(cur))) {
                        nodes.push(buildNode(cur, true));
                    }
                } catch (e) { }
                for (var c4 = cur.children.length - 1; c4 >= 0; c4--) {
                    flat.push(cur.children[c4]);
                }
            }
        }

        var result = {
            ok: true,
            cmd: 'snapshot',
            nodes: nodes,
            meta: {
                url: String(location.href),
                title: String(doc.title),
                timestamp: new Date().toISOString(),
                durationMs: Date.now() - t0,
                visibleOnly: !!OPTS.visibleOnly,
                performance: {
                    nodesScanned: scanned,
                    nodesEmitted: nodes.length,
                    traversalMs: Date.now() - walkStart,
                    processingMs: indexMs
                }
            }
        };
        if (OPTS.mode === 'dom-lite') result.meta.maxDepth = OPTS.maxDepth;
        return JSON.stringify(result);
    } catch (e) {
        return JSON.stringify({ ok: false, cmd: 'snapshot', nodes: [], error: String(e) });
    }
})()`

// reducedScript is the last-resort variant: no uniqueness caches, no
// accessibility or state extraction. Tag, rect and a plain path selector.
const reducedScript = `(function () {
    var OPTS = %s;
    var t0 = Date.now();
    try {
        var doc = document;

        function pathSelector(el) {
            var segs = [];
            var cur = el;
            while (cur && cur.nodeType === 1) {
                var tag = cur.tagName.toLowerCase();
                var parent = cur.parentElement;
                if (parent) {
                    var sameTag = 0, position = 0;
                    var sibs = parent.children;
                    for (var s = 0; s < sibs.length; s++) {
                        if (sibs[s].tagName === cur.tagName) sameTag++;
                        if (sibs[s] === cur) position = s + 1;
                    }
                    segs.unshift(sameTag > 1 ? tag + ':nth-child(' + position + ')' : tag);
                } else {
                    segs.unshift(tag);
                }
                cur = parent;
            }
            return segs.join(' > ');
        }

        function isInteractive(el) {
            var tag = el.tagName;
            if (tag === 'BUTTON' || tag === 'INPUT' || tag === 'TEXTAREA' || tag === 'SELECT') return true;
            if (tag === 'A' && el.getAttribute('href')) return true;
            if (el.hasAttribute('onclick')) return true;
            var ti = el.getAttribute('tabindex');
            if (ti !== null && ti.trim() !== '-1') return true;
            return false;
        }

        function isVisible(el) {
            if (el.offsetParent === null) return false;
            var style = window.getComputedStyle(el);
            if (style.display === 'none' || style.visibility === 'hidden') return false;
            var rect = el.getBoundingClientRect();
            if (rect.width <= 0 || rect.height <= 0) return false;
            return rect.left < window.innerWidth && rect.right > 0 &&
                rect.top < window.innerHeight && rect.bottom > 0;
        }

        var nodes = [];
        var scanned = 0;
        var stack = [doc.body];
        while (stack.length > 0) {
            var cur = stack.pop();
            scanned++;
            try {
                if (isInteractive(cur) && (!OPTS.visibleOnly || isVisible(cur))) {
                    var r = cur.getBoundingClientRect();
                    nodes.push({
                        tagName: cur.tagName.toLowerCase(),
                        selector: pathSelector(cur),
                        rect: {
                            x: Math.round(r.left), y: Math.round(r.top),
                            w: Math.max(0, Math.round(r.width)), h: Math.max(0, Math.round(r.height))
                        }
                    });
                }
            } catch (e) { }
            for (var c = cur.children.length - 1; c >= 0; c--) {
                stack.push(cur.children[c]);
            }
        }

        return JSON.stringify({
            ok: true,
            cmd: 'snapshot',
            nodes: nodes,
            meta: {
                url: String(location.href),
                title: String(doc.title),
                timestamp: new Date().toISOString(),
                durationMs: Date.now() - t0,
                visibleOnly: !!OPTS.visibleOnly,
                performance: { nodesScanned: scanned, nodesEmitted: nodes.length }
            }
        });
    } catch (e) {
        return JSON.stringify({ ok: false, cmd: 'snapshot', nodes: [], error: String(e) });
    }
})()`
