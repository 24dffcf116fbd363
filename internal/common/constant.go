package common

import "time"

// AccessTokenCookieName is the cookie carrying the signed session token.
const AccessTokenCookieName = "access_token"

// SessionTTL is the default lifetime of a session token and its cookie.
const SessionTTL = 7 * 24 * time.Hour

// PostsPageSize is the number of posts returned per list page.
const PostsPageSize = 10

// LastPageHeaderName carries the number of the last list page.
const LastPageHeaderName = "Last-Page"
