package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ttchat/internal/usecases"
)

type PublicHandler struct {
	widgets      *usecases.WidgetUsecase
	widgetScript string
	logger       *zap.Logger
}

func NewPublicHandler(widgets *usecases.WidgetUsecase, widgetCDNURL string, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		widgets:      widgets,
		widgetScript: strings.ReplaceAll(widgetScriptTemplate, "__CDN_URL__", widgetCDNURL),
		logger:       logger,
	}
}

// WidgetConfig serves the sanitized bootstrap document the embed script
// loads. Cacheable: it changes only when the owner edits the widget.
func (h *PublicHandler) WidgetConfig(c *gin.Context) {
	cfg, err := h.widgets.GetPublicConfig(c.Request.Context(), c.Param("widgetId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, cfg)
}

// WidgetScript serves the embeddable loader.
func (h *PublicHandler) WidgetScript(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/javascript", []byte(h.widgetScript))
}

// The loader reads data-widget-id from its own script tag, fetches the
// public config and renders a minimal chat box talking to the chat
// endpoint.
const widgetScriptTemplate = `(function() {
  'use strict';

  var scriptTag = document.currentScript;
  var widgetId = scriptTag && scriptTag.getAttribute('data-widget-id');
  if (!widgetId) {
    console.error('ttchat: widget id not provided');
    return;
  }

  var sessionId = 'session_' + Date.now() + '_' + Math.random().toString(36).substr(2, 9);
  var widgetConfig = null;
  var minimized = true;

  function el(tag, style, text) {
    var node = document.createElement(tag);
    if (style) node.style.cssText = style;
    if (text) node.textContent = text;
    return node;
  }

  function theme(key, fallback) {
    var t = (widgetConfig.config && widgetConfig.config.theme) || {};
    return t[key] || fallback;
  }

  function behavior(key, fallback) {
    var b = (widgetConfig.config && widgetConfig.config.behavior) || {};
    return b[key] || fallback;
  }

  function addMessage(container, text, fromBot) {
    var bg = fromBot ? '#f8f9fa' : theme('primaryColor', '#007bff');
    var msg = el('div', 'background:' + bg + ';color:' + (fromBot ? '#333' : '#fff') +
      ';padding:12px;border-radius:8px;max-width:85%;margin:6px 0;align-self:' +
      (fromBot ? 'flex-start' : 'flex-end') + ';word-wrap:break-word;', text);
    container.appendChild(msg);
    container.scrollTop = container.scrollHeight;
  }

  function render() {
    var root = el('div', 'position:fixed;bottom:20px;right:20px;z-index:10000;font-family:' +
      theme('fontFamily', 'Inter, sans-serif') + ';');

    var toggle = el('div', 'width:60px;height:60px;border-radius:50%;background:' +
      theme('primaryColor', '#007bff') + ';color:#fff;cursor:pointer;display:flex;' +
      'align-items:center;justify-content:center;box-shadow:0 4px 12px rgba(0,0,0,0.15);', '\u{1F4AC}');

    var panel = el('div', 'position:absolute;bottom:80px;right:0;width:350px;height:500px;' +
      'background:#fff;border-radius:' + theme('borderRadius', '8px') +
      ';box-shadow:0 8px 32px rgba(0,0,0,0.1);display:none;flex-direction:column;overflow:hidden;');

    var header = el('div', 'padding:16px;background:' + theme('primaryColor', '#007bff') +
      ';color:#fff;font-weight:600;', widgetConfig.name || 'AI Assistant');

    var messages = el('div', 'flex:1;overflow-y:auto;padding:16px;display:flex;flex-direction:column;');
    addMessage(messages, behavior('greeting', 'Hello! How can I help you today?'), true);

    var inputRow = el('div', 'padding:16px;border-top:1px solid #e9ecef;display:flex;gap:8px;');
    var input = el('input', 'flex:1;border:1px solid #dee2e6;border-radius:4px;padding:8px 12px;outline:none;');
    input.placeholder = behavior('placeholder', 'Type your message...');
    var send = el('button', 'background:' + theme('primaryColor', '#007bff') +
      ';color:#fff;border:none;border-radius:4px;padding:8px 16px;cursor:pointer;', 'Send');

    function submit() {
      var text = input.value.trim();
      if (!text) return;
      addMessage(messages, text, false);
      input.value = '';
      fetch(widgetConfig.apiEndpoint, {
        method: 'POST',
        headers: { 'Content-Type': 'application/json' },
        body: JSON.stringify({ message: text, sessionId: sessionId })
      }).then(function(res) { return res.json(); }).then(function(data) {
        if (data.response) addMessage(messages, data.response, true);
      }).catch(function() {
        addMessage(messages, 'Sorry, I encountered an error. Please try again.', true);
      });
    }

    send.onclick = submit;
    input.onkeypress = function(e) { if (e.key === 'Enter') submit(); };
    toggle.onclick = function() {
      minimized = !minimized;
      panel.style.display = minimized ? 'none' : 'flex';
      toggle.style.display = minimized ? 'flex' : 'none';
    };
    header.onclick = toggle.onclick;

    inputRow.appendChild(input);
    inputRow.appendChild(send);
    panel.appendChild(header);
    panel.appendChild(messages);
    panel.appendChild(inputRow);
    root.appendChild(toggle);
    root.appendChild(panel);
    document.body.appendChild(root);
  }

  fetch('__CDN_URL__/widget/' + widgetId + '/config')
    .then(function(res) {
      if (!res.ok) throw new Error('config load failed');
      return res.json();
    })
    .then(function(cfg) { widgetConfig = cfg; render(); })
    .catch(function(err) { console.error('ttchat: failed to load configuration', err); });
})();
`
