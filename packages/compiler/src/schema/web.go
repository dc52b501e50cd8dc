// Package schema holds the web platform's tag and attribute tables and
// wires them into compiler options.
package schema

import (
	"vtc-go/packages/compiler/src/util"
)

// IsHTMLTag matches the HTML elements known to the browser.
var IsHTMLTag = util.MakeMap(
	"html,body,base,head,link,meta,style,title,"+
		"address,article,aside,footer,header,h1,h2,h3,h4,h5,h6,hgroup,nav,section,"+
		"div,dd,dl,dt,figcaption,figure,picture,hr,img,li,main,ol,p,pre,ul,"+
		"a,b,abbr,bdi,bdo,br,cite,code,data,dfn,em,i,kbd,mark,q,rp,rt,rtc,ruby,"+
		"s,samp,small,span,strong,sub,sup,time,u,var,wbr,area,audio,map,track,video,"+
		"embed,object,param,source,canvas,script,noscript,del,ins,"+
		"caption,col,colgroup,table,thead,tbody,td,th,tr,"+
		"button,datalist,fieldset,form,input,label,legend,meter,optgroup,option,"+
		"output,progress,select,textarea,"+
		"details,dialog,menu,menuitem,summary,"+
		"content,element,shadow,template,blockquote,iframe,tfoot",
	false,
)

// IsSVG matches SVG elements. Only a subset of the SVG vocabulary that can
// appear as a child of <svg> is listed.
var IsSVG = util.MakeMap(
	"svg,animate,circle,clippath,cursor,defs,desc,ellipse,filter,font-face,"+
		"foreignobject,g,glyph,image,line,marker,mask,missing-glyph,path,pattern,"+
		"polygon,polyline,rect,switch,symbol,text,textpath,tspan,use,view",
	true,
)

// IsUnaryTag matches elements that never have a closing tag.
var IsUnaryTag = util.MakeMap(
	"area,base,br,col,embed,frame,hr,img,input,isindex,keygen,"+
		"link,meta,param,source,track,wbr",
	false,
)

// CanBeLeftOpenTag matches elements whose closing tag may be omitted.
var CanBeLeftOpenTag = util.MakeMap(
	"colgroup,dd,dt,li,options,p,td,tfoot,th,thead,tr,source",
	false,
)

// IsPreTag matches elements whose whitespace is preserved.
func IsPreTag(tag string) bool {
	return tag == "pre"
}

// IsReservedTag matches every HTML or SVG element.
func IsReservedTag(tag string) bool {
	return IsHTMLTag(tag) || IsSVG(tag)
}

// GetTagNamespace returns "svg" or "math" for elements living in those
// namespaces and "" otherwise.
func GetTagNamespace(tag string) string {
	if IsSVG(tag) {
		return "svg"
	}
	if tag == "math" {
		return "math"
	}
	return ""
}

// IsTextInputType matches input types that accept free text.
var IsTextInputType = util.MakeMap("text,number,password,search,email,tel,url", false)
