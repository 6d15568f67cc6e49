/*
Package armor implements a container for Z85 text that satisfies the
requirements of the AMP (Accelerated Mobile Pages) subset of HTML, so that an
armored blob can be published as, or copied out of, an ordinary web page. For
the requirements of AMP HTML, see
https://amp.dev/documentation/guides-and-tutorials/learn/spec/amphtml/.

The encoding algorithm works as follows. Prepend the Z85 text with the byte
'0'; this is a version indicator that the decoder can use to determine how to
interpret the symbols that follow. Split the text into fixed-size chunks of 32
symbols, one per line. Take up to 1024 chunks at a time, and wrap them in a pre
element. Because the Z85 alphabet contains '&', '<', and '>', chunks are
HTML-escaped. Then, situate the markup so far within the body of the AMP HTML
boilerplate. The decoding algorithm is to scan the HTML for pre elements,
unescape their text contents, split on whitespace and concatenate, then check
and remove the version indicator.

The characters that may separate the chunks are the ASCII whitespace characters
(https://infra.spec.whatwg.org/#ascii-whitespace) "\x09", "\x0a", "\x0c",
"\x0d", and "\x20". Each pre element may contain at most 64 KB of text. pre
elements may not be nested.

Example

The following is the result of encoding the Z85 text "HelloWorld":

	<!doctype html>
	<html amp>
	<head>
	<meta charset="utf-8">
	<script async src="https://cdn.ampproject.org/v0.js"></script>
	<link rel="canonical" href="#">
	<meta name="viewport" content="width=device-width">
	<style amp-boilerplate>body{-webkit-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-moz-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-ms-animation:-amp-start 8s steps(1,end) 0s 1 normal both;animation:-amp-start 8s steps(1,end) 0s 1 normal both}@-webkit-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-moz-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-ms-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-o-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}</style><noscript><style amp-boilerplate>body{-webkit-animation:none;-moz-animation:none;-ms-animation:none;animation:none}</style></noscript>
	</head>
	<body>
	<pre>
	0HelloWorld
	</pre>
	</body>
	</html>
*/
package armor
