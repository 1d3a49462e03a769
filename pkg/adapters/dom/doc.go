/*
Package dom adapts an HTML page, observed through goquery, to the waypoint engine.

Browser is a minimal HTTP-backed session driver: it keeps a cookie jar, the
current URL and the last parsed document. Conditions (Visible, TitleContains,
TextContains, URLContains) observe any driver implementing Surface; Actions
(VisitAction, Submit) require a Navigator.
*/
package dom
